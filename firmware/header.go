package firmware

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"
)

const valuesPerRow = 8 // Array values per header line

// ErrInvalidName is returned when a header prefix is not a C identifier.
var ErrInvalidName = errors.New("firmware: invalid identifier")

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var headerTemplate = template.Must(template.New("header").Funcs(template.FuncMap{
	"upper": strings.ToUpper,
	"hex":   func(v uint32) string { return fmt.Sprintf("0x%08X", v) },
	"dec":   func(v int32) string { return fmt.Sprintf("%d", v) },
}).Parse(`// Two-stage PDM decimator coefficients.
// Stage-1 scale {{printf "%.9g" .A.Stage1.Scale}}, stage-2 scale {{printf "%.9g" .A.Stage2.Scale}}.
// clang-format off
#pragma once

#include <stdint.h>

#define {{upper .Name}}_S1_TAP_COUNT {{len .A.Stage1.Coefs}}
#define {{upper .Name}}_S1_WORDS ({{upper .Name}}_S1_TAP_COUNT) / 2
#define {{upper .Name}}_S1_DEC_FACTOR {{.A.Stage1.DecimationFactor}}

static const uint32_t {{.Name}}_s1_coef[{{upper .Name}}_S1_WORDS] = {
{{- range .S1Rows}}
 {{range .}} {{hex .}},{{end}}
{{- end}}
};

#define {{upper .Name}}_S2_TAP_COUNT {{len .A.Stage2.Coefs}}
#define {{upper .Name}}_S2_DEC_FACTOR {{.A.Stage2.DecimationFactor}}
#define {{upper .Name}}_S2_SHR {{.A.Stage2.Shr}}

static const int32_t {{.Name}}_s2_coef[{{upper .Name}}_S2_TAP_COUNT] = {
{{- range .S2Rows}}
 {{range .}} {{dec .}},{{end}}
{{- end}}
};
// clang-format on
`))

type headerData struct {
	Name   string
	A      Artifacts
	S1Rows [][]uint32
	S2Rows [][]int32
}

// WriteHeader renders a as a C header. name prefixes every macro and
// array, so several filter sets can live in one build.
func (a Artifacts) WriteHeader(w io.Writer, name string) error {
	if !identifier.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := a.Validate(); err != nil {
		return err
	}

	data := headerData{
		Name:   name,
		A:      a,
		S1Rows: rows(a.Stage1.Packed),
		S2Rows: rows(a.Stage2.Coefs),
	}
	if err := headerTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render header: %w", err)
	}
	return nil
}

func rows[T any](values []T) [][]T {
	var out [][]T
	for len(values) > 0 {
		n := min(valuesPerRow, len(values))
		out = append(out, values[:n])
		values = values[n:]
	}
	return out
}
