// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

//go:build ignore

// Command gentables derives the frozen ln/exp lookup tables baked into
// fixedpoint/tables.go. It is never imported by the consensus path and
// is excluded from ordinary builds; run it by hand (go run
// internal/gentables/main.go) when re-deriving the tables, then paste
// the output into fixedpoint/tables.go and update
// Policy.TablesHash accordingly. This is the only place in the repo
// floating point is allowed to touch anything score-related, and its
// output is frozen data, not a runtime code path.
package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	scale      = 1_000_000.0
	tableSteps = 64
)

func main() {
	ln2 := math.Log(2)
	fmt.Printf("ln2Fixed = %d\n", int64(math.Round(ln2*scale)))

	lnTable := make([]float64, tableSteps+1)
	for i := range lnTable {
		x := 1 + float64(i)/tableSteps
		lnTable[i] = math.Round(math.Log(x) * scale)
	}
	fmt.Println("lnTable:", floats.Round(lnTable, 0))

	expTable := make([]float64, tableSteps+1)
	for i := range expTable {
		r := (float64(i) / tableSteps) * ln2
		expTable[i] = math.Round(math.Exp(r) * scale)
	}
	fmt.Println("expTable:", floats.Round(expTable, 0))
}
