package profile

import (
	"fmt"
	"strings"

	"github.com/dgallion1/mategest/internal/assessment"
)

// EvaluationType says whether the subject is an advisor or a team leader.
type EvaluationType string

const (
	EvaluationAdvisor EvaluationType = "asesor"
	EvaluationLeader  EvaluationType = "lider"
)

// Evolution is the operator's judgement against the previous assessment.
type Evolution string

const (
	EvolutionImproves Evolution = "mejora"
	EvolutionKeeps    Evolution = "mantiene"
	EvolutionWorsens  Evolution = "empeora"
)

// Answer is one interview question and the leader's reply.
type Answer struct {
	Question string `json:"question"`
	Response string `json:"response"`
	FollowUp bool   `json:"follow_up,omitempty"`
}

// CompetencyInput is what the operator entered for one competency.
type CompetencyInput struct {
	ID        assessment.CompetencyID `json:"id"`
	Evolution Evolution               `json:"evolution,omitempty"`
	Answers   []Answer                `json:"answers,omitempty"`
}

// Request carries everything the profile prompt is built from.
type Request struct {
	SubjectName string             `json:"subject_name"`
	Type        EvaluationType     `json:"evaluation_type"`
	Previous    *assessment.Report `json:"previous,omitempty"`
	Metrics     string             `json:"metrics,omitempty"`
	Inputs      []CompetencyInput  `json:"inputs,omitempty"`
}

var competencyGroups = map[assessment.CompetencyID]string{
	assessment.MentalidadAgil:         "Personal",
	assessment.Engagement:             "Personal",
	assessment.Confianza:              "Personal",
	assessment.ComunicacionDigital:    "Relacional",
	assessment.ColaboracionRemota:     "Relacional",
	assessment.FocoData:               "Logro y acción",
	assessment.LearningAgility:        "Logro y acción",
	assessment.OrientacionResultados:  "Logro y acción",
	assessment.GestionCambio:          "Logro y acción",
	assessment.MindsetDigital:         "Negocio",
	assessment.LiderazgoKonecta:       "Negocio",
	assessment.ExperienciaCliente:     "Negocio",
	assessment.OrientacionComercial:   "Negocio",
	assessment.ProspectivaEstrategica: "Negocio",
}

const promptClosing = `Genera un perfil detallado y profesional con estas secciones:
1. Resumen ejecutivo%[1]s.
2. Evaluación por competencia con el nivel destacado (Excelente Desarrollo, Desarrollado o Necesita Desarrollo)%[2]s.
3. Fortalezas agrupadas por categoría.
4. Áreas de oportunidad con recomendaciones concretas.
5. Plan de desarrollo con acciones basadas en el manual de competencias.
6. Plan de trabajo para el próximo semestre con objetivos SMART, plazos y métricas de seguimiento.

Formato: títulos con ##, subtítulos con ###, listas numeradas o con viñetas y el nivel de cada competencia en negrita (por ejemplo **Nivel: Desarrollado**). El documento debe poder entregarse directamente al colaborador.`

// BuildPrompt renders the Spanish prompt for a profile. Operator text is
// sanitized first; an injection attempt fails the whole request.
func BuildPrompt(req Request) (string, error) {
	name, err := SanitizeText(req.SubjectName)
	if err != nil {
		return "", fmt.Errorf("subject name: %w", err)
	}
	if name == "" {
		return "", fmt.Errorf("subject name is required")
	}
	metrics, err := SanitizeText(req.Metrics)
	if err != nil {
		return "", fmt.Errorf("metrics: %w", err)
	}

	advisor := req.Type != EvaluationLeader
	role, roleUpper := "líder", "LÍDER"
	if advisor {
		role, roleUpper = "asesor", "ASESOR"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Eres un experto en evaluación de competencias laborales. A partir del manual de desarrollo de competencias y de las respuestas del líder sobre el %s %s, genera un perfil completo de competencias.\n\n", role, name)
	if advisor {
		sb.WriteString("IMPORTANTE: la evaluación es para un ASESOR. No evalúes las competencias exclusivas de liderazgo: ")
		sb.WriteString(strings.Join(leaderOnlyNames(), ", "))
		sb.WriteString(".\n")
	} else {
		sb.WriteString("IMPORTANTE: la evaluación es para un LÍDER. Aplican todas las competencias, incluidas las de liderazgo.\n")
	}

	if req.Previous != nil {
		writePrevious(&sb, req.Previous)
	}
	if metrics != "" {
		fmt.Fprintf(&sb, "\nMÉTRICAS DEL %s:\n%s\nUsa estas métricas para contextualizar el análisis de competencias.\n", roleUpper, metrics)
	}

	sb.WriteString("\nLas competencias se agrupan en: Personal, Relacional, Logro y acción, Negocio.\n")
	if req.Previous != nil {
		sb.WriteString("\nEVALUACIÓN ACTUAL (comparada con el MATE anterior):\n")
	} else {
		sb.WriteString("\nEVALUACIÓN ACTUAL:\n")
	}
	if err := writeInputs(&sb, req, advisor); err != nil {
		return "", err
	}

	compare, levels := "", ""
	if req.Previous != nil {
		compare = " comparando con el MATE anterior"
		levels = " y la evolución respecto del MATE anterior"
	}
	if metrics != "" {
		compare += " e incorporando las métricas"
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, promptClosing, compare, levels)
	return sb.String(), nil
}

func writePrevious(sb *strings.Builder, r *assessment.Report) {
	period := r.Period
	if period == "" {
		period = "período anterior"
	}
	fmt.Fprintf(sb, "\nINFORMACIÓN DEL MATE ANTERIOR (%s):\n", period)
	for _, info := range assessment.Competencies {
		rec, ok := r.Competencies[info.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(sb, "\n%s - Nivel %d:\n", info.DisplayName, rec.Level)
		if rec.Category != "" && rec.Category != assessment.CategoryUnknown {
			fmt.Fprintf(sb, "Categoría en MATE anterior: %s\n", rec.Category.Label())
		}
		if rec.Description != "" {
			fmt.Fprintf(sb, "Descripción: %s\n", rec.Description)
		}
		if rec.Observations != "" {
			fmt.Fprintf(sb, "Observaciones: %s\n", rec.Observations)
		}
	}
}

func writeInputs(sb *strings.Builder, req Request, advisor bool) error {
	for _, in := range req.Inputs {
		info, ok := assessment.Lookup(in.ID)
		if !ok {
			return fmt.Errorf("unknown competency %q", in.ID)
		}
		if advisor && info.LeaderOnly {
			continue
		}

		var block strings.Builder
		var prev *assessment.CompetencyRecord
		if req.Previous != nil {
			if rec, ok := req.Previous.Competencies[in.ID]; ok {
				prev = &rec
			}
		}
		if prev != nil && in.Evolution != "" {
			fmt.Fprintf(&block, "Estado en MATE anterior: Nivel %d\n", prev.Level)
			if prev.Category != "" && prev.Category != assessment.CategoryUnknown {
				fmt.Fprintf(&block, "Categoría en MATE anterior: %s\n", prev.Category.Label())
			}
			if prev.Observations != "" {
				fmt.Fprintf(&block, "Observaciones anteriores: %s\n", prev.Observations)
			}
			fmt.Fprintf(&block, "Evolución: %s\n", in.Evolution)
			if in.Evolution == EvolutionKeeps {
				block.WriteString("Evaluación: mantiene el nivel del MATE anterior.\n")
			}
		}
		if prev == nil || in.Evolution != EvolutionKeeps {
			for _, a := range in.Answers {
				q, err := SanitizeText(a.Question)
				if err != nil {
					return fmt.Errorf("%s question: %w", in.ID, err)
				}
				r, err := SanitizeText(a.Response)
				if err != nil {
					return fmt.Errorf("%s answer: %w", in.ID, err)
				}
				if r == "" {
					continue
				}
				label := "P"
				if a.FollowUp {
					label = "P (profundización)"
				}
				fmt.Fprintf(&block, "%s: %s\nR: %s\n", label, q, r)
			}
		}
		if block.Len() == 0 {
			continue
		}
		fmt.Fprintf(sb, "\n%s (%s):\n%s", info.DisplayName, competencyGroups[in.ID], block.String())
	}
	return nil
}

func leaderOnlyNames() []string {
	var names []string
	for _, c := range assessment.Competencies {
		if c.LeaderOnly {
			names = append(names, c.DisplayName)
		}
	}
	return names
}
