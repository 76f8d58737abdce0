// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !(js && wasm)

package webgpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"

	"github.com/gogpu/heatwave/internal/shadercache"
)

// ErrInvalidShader is returned when WGSL source fails to parse, lower or
// validate.
var ErrInvalidShader = errors.New("webgpu: invalid shader")

// frontEnd memoizes naga results for ValidateWGSL and EntryPoints.
var frontEnd = shadercache.New(shadercache.DefaultLimit)

// ValidateWGSL checks source with naga and reports the first problem found.
// Every validation message is included in the returned error. Results are
// cached by source text.
func ValidateWGSL(source string) error {
	if strings.TrimSpace(source) == "" {
		return fmt.Errorf("%w: empty source", ErrInvalidShader)
	}
	return frontEnd.Lookup(source, compileWGSL).Err
}

// EntryPoints returns the entry point names declared in source, in
// declaration order. Sources that lower but fail validation still report
// their entry points.
func EntryPoints(source string) ([]string, error) {
	res := frontEnd.Lookup(source, compileWGSL)
	if !res.Lowered {
		return nil, res.Err
	}
	return res.EntryPoints, nil
}

func compileWGSL(source string) shadercache.Result {
	ast, err := naga.Parse(source)
	if err != nil {
		return shadercache.Result{Err: fmt.Errorf("%w: %w", ErrInvalidShader, err)}
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return shadercache.Result{Err: fmt.Errorf("%w: %w", ErrInvalidShader, err)}
	}
	res := shadercache.Result{Lowered: true, EntryPoints: make([]string, len(module.EntryPoints))}
	for i, ep := range module.EntryPoints {
		res.EntryPoints[i] = ep.Name
	}

	problems, err := naga.Validate(module)
	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrInvalidShader, err)
		return res
	}
	if len(problems) > 0 {
		msgs := make([]string, len(problems))
		for i := range problems {
			msgs[i] = problems[i].Error()
		}
		res.Err = fmt.Errorf("%w: %s", ErrInvalidShader, strings.Join(msgs, "; "))
	}
	return res
}
