package model

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Category is the closed set of transaction categories known to the backend.
type Category string

const (
	Moradia        Category = "MORADIA"
	Contas         Category = "CONTAS"
	Mercado        Category = "MERCADO"
	ComidaFora     Category = "COMIDA_FORA"
	Transporte     Category = "TRANSPORTE"
	Saude          Category = "SAUDE"
	Educacao       Category = "EDUCACAO"
	Lazer          Category = "LAZER"
	Compras        Category = "COMPRAS"
	Dividas        Category = "DIVIDAS"
	Investimentos  Category = "INVESTIMENTOS"
	Salario        Category = "SALARIO"
	OutrasReceitas Category = "OUTRAS_RECEITAS"
	Outros         Category = "OUTROS"
)

// Categories lists every category in display order.
var Categories = []Category{
	Moradia, Contas, Mercado, ComidaFora, Transporte, Saude, Educacao,
	Lazer, Compras, Dividas, Investimentos, Salario, OutrasReceitas, Outros,
}

// Label returns the user-facing name. Unknown keys render as themselves.
func (c Category) Label() string {
	switch c {
	case Moradia:
		return "Moradia"
	case Contas:
		return "Contas"
	case Mercado:
		return "Mercado"
	case ComidaFora:
		return "Comida Fora"
	case Transporte:
		return "Transporte"
	case Saude:
		return "Saúde"
	case Educacao:
		return "Educação"
	case Lazer:
		return "Lazer"
	case Compras:
		return "Compras"
	case Dividas:
		return "Dívidas"
	case Investimentos:
		return "Investimentos"
	case Salario:
		return "Salário"
	case OutrasReceitas:
		return "Outras Receitas"
	case Outros:
		return "Outros"
	}
	return string(c)
}

// Glyph returns a single-cell symbol for terminal lists.
func (c Category) Glyph() string {
	switch c {
	case Moradia:
		return "⌂"
	case Contas:
		return "≡"
	case Mercado:
		return "⊞"
	case ComidaFora:
		return "☕"
	case Transporte:
		return "⇄"
	case Saude:
		return "♥"
	case Educacao:
		return "✎"
	case Lazer:
		return "♪"
	case Compras:
		return "◇"
	case Dividas:
		return "▭"
	case Investimentos:
		return "↗"
	case Salario:
		return "$"
	case OutrasReceitas:
		return "+"
	case Outros:
		return "•"
	}
	return "•"
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// ParseCategory accepts a category key in any case, with spaces or dashes
// in place of underscores. On failure the error suggests the closest key.
func ParseCategory(s string) (Category, error) {
	key := normalizeKey(s)
	for _, c := range Categories {
		if string(c) == key {
			return c, nil
		}
	}
	keys := make([]string, len(Categories))
	for i, c := range Categories {
		keys[i] = string(c)
	}
	return "", unknownKeyError("category", s, keys)
}

func normalizeKey(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// unknownKeyError builds a "did you mean" error for enum parsing.
func unknownKeyError(kind, input string, keys []string) error {
	key := normalizeKey(input)
	best, bestDist := "", -1
	for _, k := range keys {
		d := levenshtein.ComputeDistance(key, k)
		if bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}
	if best != "" && bestDist <= len(best)/2 {
		return fmt.Errorf("unknown %s %q (did you mean %s?)", kind, input, best)
	}
	return fmt.Errorf("unknown %s %q (one of %s)", kind, input, strings.Join(keys, ", "))
}
