package app

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ffscore/alg/search"
	"ffscore/nlp/translation/ff"
	nlp "ffscore/nlp/types"

	"github.com/goccy/go-json"
)

const FIELD_SEPARATOR = " ||| "

type Translation struct {
	Text         string               `json:"text"`
	Total        float64              `json:"total"`
	Scores       map[string][]float64 `json:"scores"`
	Sparse       map[string]float64   `json:"sparse,omitempty"`
	Segmentation []string             `json:"segmentation"`

	scoreStr string
}

type Result struct {
	ID           int            `json:"id"`
	Type         string         `json:"type"`
	Translations []*Translation `json:"translations"`
}

func NewResult(b *search.Beam, input nlp.Input, hypotheses []*search.Hypothesis) *Result {
	registry := b.Evaluator.Registry()
	result := &Result{
		ID:           input.ID(),
		Type:         input.Type().String(),
		Translations: make([]*Translation, len(hypotheses)),
	}
	for i, h := range hypotheses {
		t := &Translation{
			Text:         h.Translation().String(),
			Total:        h.Total,
			Scores:       make(map[string][]float64, registry.Len()),
			Segmentation: h.Segmentation(),
			scoreStr:     FormatScores(registry, h.Scores),
		}
		for _, f := range registry.Functions() {
			t.Scores[f.Name()] = h.Scores.ScoresFor(f)
		}
		if len(h.Scores.Sparse) > 0 {
			t.Sparse = h.Scores.Sparse.Copy()
		}
		result.Translations[i] = t
	}
	return result
}

// FormatScores renders a breakdown moses n-best style, "name= v1 v2 ..."
// per function in registration order followed by sparse components
func FormatScores(r *ff.Registry, s *ff.ScoreBreakdown) string {
	var fields []string
	for _, f := range r.Functions() {
		scores := s.ScoresFor(f)
		if len(scores) == 0 {
			continue
		}
		fields = append(fields, f.Name()+"=")
		for _, v := range scores {
			fields = append(fields, strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	for _, key := range s.Sparse.Keys() {
		fields = append(fields, key+"=", strconv.FormatFloat(s.Sparse[key], 'g', -1, 64))
	}
	return strings.Join(fields, " ")
}

// WriteText writes one translation per line, or moses n-best lines
// "id ||| text ||| scores ||| total" when nbest is set
func WriteText(w io.Writer, results []*Result, nbest bool) error {
	out := bufio.NewWriter(w)
	for _, result := range results {
		if !nbest {
			fmt.Fprintln(out, result.Translations[0].Text)
			continue
		}
		for _, t := range result.Translations {
			fmt.Fprintln(out, strings.Join([]string{
				strconv.Itoa(result.ID),
				t.Text,
				t.scoreStr,
				strconv.FormatFloat(t.Total, 'g', -1, 64),
			}, FIELD_SEPARATOR))
		}
	}
	return out.Flush()
}

// WriteJSON writes one JSON object per result
func WriteJSON(w io.Writer, results []*Result) error {
	out := bufio.NewWriter(w)
	encoder := json.NewEncoder(out)
	for _, result := range results {
		if err := encoder.Encode(result); err != nil {
			return err
		}
	}
	return out.Flush()
}
