package assessment

import "fmt"

// CompetencyID is one of the canonical competency identifiers.
type CompetencyID string

const (
	MentalidadAgil         CompetencyID = "mentalidad_agil"
	FocoData               CompetencyID = "foco_data"
	ComunicacionDigital    CompetencyID = "comunicacion_digital"
	LearningAgility        CompetencyID = "learning_agility"
	ColaboracionRemota     CompetencyID = "colaboracion_remota"
	MindsetDigital         CompetencyID = "mindset_digital"
	LiderazgoKonecta       CompetencyID = "liderazgo_konecta"
	Engagement             CompetencyID = "engagement"
	Confianza              CompetencyID = "confianza"
	ExperienciaCliente     CompetencyID = "experiencia_cliente"
	OrientacionResultados  CompetencyID = "orientacion_resultados"
	OrientacionComercial   CompetencyID = "orientacion_comercial"
	ProspectivaEstrategica CompetencyID = "prospectiva_estrategica"
	GestionCambio          CompetencyID = "gestion_cambio"
)

// CompetencyInfo describes a canonical competency.
type CompetencyInfo struct {
	ID          CompetencyID
	DisplayName string
	LeaderOnly  bool
}

// Competencies lists every canonical competency in template order.
var Competencies = []CompetencyInfo{
	{ID: MentalidadAgil, DisplayName: "Mentalidad Ágil (Adaptabilidad)"},
	{ID: FocoData, DisplayName: "Foco en Data (Análisis y Resolución de Problemas)"},
	{ID: ComunicacionDigital, DisplayName: "Comunicación Digital (Comunicación Efectiva)"},
	{ID: LearningAgility, DisplayName: "Learning Agility (Espíritu Emprendedor)"},
	{ID: ColaboracionRemota, DisplayName: "Colaboración Remota (Trabajo en Equipo)", LeaderOnly: true},
	{ID: MindsetDigital, DisplayName: "Mindset Digital (Innovación)", LeaderOnly: true},
	{ID: LiderazgoKonecta, DisplayName: "Liderazgo Konecta", LeaderOnly: true},
	{ID: Engagement, DisplayName: "Engagement (Compromiso Laboral)"},
	{ID: Confianza, DisplayName: "Confianza (Integridad)"},
	{ID: ExperienciaCliente, DisplayName: "Experiencia del Cliente (CX)"},
	{ID: OrientacionResultados, DisplayName: "Orientación a Resultados"},
	{ID: OrientacionComercial, DisplayName: "Orientación Comercial / Mercado"},
	{ID: ProspectivaEstrategica, DisplayName: "Prospectiva Estratégica (Visión Estratégica)", LeaderOnly: true},
	{ID: GestionCambio, DisplayName: "Gestión del Cambio"},
}

var competencyIndex = func() map[CompetencyID]CompetencyInfo {
	m := make(map[CompetencyID]CompetencyInfo, len(Competencies))
	for _, c := range Competencies {
		m[c.ID] = c
	}
	return m
}()

// Lookup returns the descriptor for a canonical id.
func Lookup(id CompetencyID) (CompetencyInfo, bool) {
	info, ok := competencyIndex[id]
	return info, ok
}

// Valid reports whether id is a canonical competency id.
func (id CompetencyID) Valid() bool {
	_, ok := competencyIndex[id]
	return ok
}

// Category is the qualitative category a competency was filed under.
type Category string

const (
	CategoryMaintain  Category = "maintain"
	CategoryEncourage Category = "encourage"
	CategoryTransform Category = "transform"
	CategoryAvoid     Category = "avoid"
	CategoryUnknown   Category = "unknown"
)

var validCategories = map[Category]bool{
	CategoryMaintain:  true,
	CategoryEncourage: true,
	CategoryTransform: true,
	CategoryAvoid:     true,
	CategoryUnknown:   true,
}

// Label returns the template's Spanish heading for the category.
func (c Category) Label() string {
	switch c {
	case CategoryMaintain:
		return "Mantener"
	case CategoryEncourage:
		return "Alentar"
	case CategoryTransform:
		return "Transformar"
	case CategoryAvoid:
		return "Evitar"
	}
	return "Sin categoría"
}

// KPIName is one of the fixed performance indicators.
type KPIName string

const (
	KPINPS KPIName = "NPS"
	KPIPEC KPIName = "PEC"
	KPITMO KPIName = "TMO"
)

// KPINames is the closed indicator vocabulary, in search order.
var KPINames = []KPIName{KPINPS, KPIPEC, KPITMO}

// PassFail is a normalized pass indicator.
type PassFail string

const (
	PassYes     PassFail = "yes"
	PassNo      PassFail = "no"
	PassUnknown PassFail = "unknown"
)

// Report is everything recovered from one previous-assessment document.
type Report struct {
	SubjectName  string                            `json:"subject_name" yaml:"subject_name"`
	Period       string                            `json:"period" yaml:"period"`
	Competencies map[CompetencyID]CompetencyRecord `json:"competencies" yaml:"competencies"`
	Metrics      *MetricsBlock                     `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Diagnostics  []Diagnostic                      `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Summary is the rolled-up line shown to the operator.
func (r *Report) Summary() string {
	n := len(r.Competencies)
	if n == 1 {
		return "1 competencia encontrada"
	}
	return fmt.Sprintf("%d competencias encontradas", n)
}

// CompetencyRecord is one matched "COMPETENCIA - Nivel N:" block.
type CompetencyRecord struct {
	Level        int      `json:"level" yaml:"level"`
	Description  string   `json:"description" yaml:"description"`
	Observations string   `json:"observations" yaml:"observations"`
	Category     Category `json:"category" yaml:"category"`
}

// MetricsBlock holds the KPI, comments and pass sections.
type MetricsBlock struct {
	KPIs     []KPIEntry `json:"kpis" yaml:"kpis"`
	Comments string     `json:"comments" yaml:"comments"`
	PassFail string     `json:"pass_fail" yaml:"pass_fail"`
}

// KPIEntry is a single indicator found in the KPI block.
type KPIEntry struct {
	SourceText string   `json:"source_text" yaml:"source_text"`
	Name       KPIName  `json:"name" yaml:"name"`
	Period     string   `json:"period" yaml:"period"`
	PassFail   PassFail `json:"pass_fail" yaml:"pass_fail"`
}

// DiagnosticKind classifies a recoverable extraction problem.
type DiagnosticKind string

const (
	DiagUnresolvedLabel     DiagnosticKind = "unresolved_label"
	DiagMalformedLevel      DiagnosticKind = "malformed_level"
	DiagDuplicateCompetency DiagnosticKind = "duplicate_competency"
	DiagDuplicateKPI        DiagnosticKind = "duplicate_kpi"
)

// Diagnostic records something the engine dropped or overrode.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind" yaml:"kind"`
	Offset int            `json:"offset" yaml:"offset"`
	Label  string         `json:"label,omitempty" yaml:"label,omitempty"`
	Detail string         `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// SectionSpan is the half-open run of text governed by one category header.
type SectionSpan struct {
	Category Category
	Start    int
	End      int
}

// Contains reports whether offset falls inside the span.
func (s SectionSpan) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// MergePolicy decides which occurrence survives when a key repeats.
type MergePolicy int

const (
	FirstWins MergePolicy = iota
	LastWins
)

const (
	competencyMergePolicy = LastWins
	kpiMergePolicy        = FirstWins
)

// keep reports whether an incoming duplicate should replace the stored value.
func (p MergePolicy) keep(exists bool) bool {
	if !exists {
		return true
	}
	return p == LastWins
}
