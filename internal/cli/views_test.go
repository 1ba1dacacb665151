package cli

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/duskwallet/duskwallet/internal/analysis"
	"github.com/duskwallet/duskwallet/internal/model"
)

func TestRenderAnalysis_Sections(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)
	v := analysis.View{
		Analysis: model.Analysis{Payload: json.RawMessage(`{
			"resumo": "Gastos altos",
			"ponto_positivo": "Renda estável",
			"ponto_de_atencao": "Delivery demais",
			"analise_de_padroes": ["fim de semana", "delivery"],
			"conselhos": ["cozinhar mais"],
			"plano_de_emergencia": ["cortar assinaturas"]
		}`)},
		UpdatedAt: now.Add(-2 * time.Hour),
	}

	out := RenderAnalysis(v, nil, now)
	for _, want := range []string{
		"Resumo Financeiro", "Gastos altos",
		"Ponto Positivo", "Renda estável",
		"Ponto de Atenção", "Delivery demais",
		"Padrões de Comportamento", "2 padrões identificados", "1. fim de semana", "2. delivery",
		"Conselhos Práticos", "cozinhar mais",
		"Plano de Emergência", "Passo 1: cortar assinaturas",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, `"resumo"`) {
		t.Errorf("recognized payload dumped as raw JSON:\n%s", out)
	}
}

func TestRenderAnalysis_UnknownPayloadShownRaw(t *testing.T) {
	v := analysis.View{Analysis: model.Analysis{Payload: json.RawMessage(`{"other":1}`)}}
	out := RenderAnalysis(v, nil, time.Now())
	if !strings.Contains(out, `{"other":1}`) {
		t.Errorf("unknown payload not shown:\n%s", out)
	}
}
