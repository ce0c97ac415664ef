package assessment

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		label  string
		wantID CompetencyID
		tier   Tier
	}{
		{"MENTALIDAD ÁGIL", MentalidadAgil, TierExact},
		{"mentalidad   agil", MentalidadAgil, TierExact},
		{"CX", ExperienciaCliente, TierExact},
		{"ORIENTACIÓN A LOS RESUL TADOS", OrientacionResultados, TierExact},
		{"MINDSET DIGITAL (INNOVACIÓN)", MindsetDigital, TierContains},
		{"EXPERIENCIA DEL CLIENTE (CX)", ExperienciaCliente, TierContains},
		{"FOCO EN DATA (ANÁLISIS Y RESOLUCIÓN DE PROBLEMAS)", FocoData, TierContains},
		{"ORIENTACIÓN A LOS RESUL", OrientacionResultados, TierContains},
		{"LIDERAZGO", LiderazgoKonecta, TierKeyword},
		{"Colaboración", ColaboracionRemota, TierKeyword},
		{"GESTIÓN CAMBIO", GestionCambio, TierKeyword},
		{"PROSPECTIVA", ProspectivaEstrategica, TierKeyword},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			id, tier, ok := Resolve(tt.label)
			if !ok {
				t.Fatalf("Resolve(%q) did not resolve", tt.label)
			}
			if id != tt.wantID {
				t.Errorf("id = %s, want %s", id, tt.wantID)
			}
			if tier != tt.tier {
				t.Errorf("tier = %s, want %s", tier, tt.tier)
			}
		})
	}
}

func TestResolve_Unresolved(t *testing.T) {
	for _, label := range []string{"", "   ", "COMUNICACIÓN", "comunicacion", "ATENCIÓN AL PÚBLICO", "DE"} {
		if id, tier, ok := Resolve(label); ok {
			t.Errorf("Resolve(%q) = %s (%s), want no match", label, id, tier)
		}
	}
}

func TestResolve_ExactAliasesNeverFallThrough(t *testing.T) {
	for alias, want := range aliases {
		id, tier, ok := Resolve(alias)
		if !ok || id != want || tier != TierExact {
			t.Errorf("Resolve(%q) = %s, %s, %v; want %s, exact", alias, id, tier, ok, want)
		}
	}
}

func TestResolve_EveryAliasTargetIsCanonical(t *testing.T) {
	for alias, id := range aliases {
		if !id.Valid() {
			t.Errorf("alias %q maps to unknown id %q", alias, id)
		}
	}
	for _, r := range keywordRules {
		if r.id != "" && !r.id.Valid() {
			t.Errorf("keyword rule %v maps to unknown id %q", r.require, r.id)
		}
	}
}

func TestResolve_CoversEveryCompetency(t *testing.T) {
	covered := map[CompetencyID]bool{}
	for _, id := range aliases {
		covered[id] = true
	}
	for _, c := range Competencies {
		if !covered[c.ID] {
			t.Errorf("no alias for %s", c.ID)
		}
	}
	if len(Competencies) != 14 {
		t.Errorf("len(Competencies) = %d, want 14", len(Competencies))
	}
}
