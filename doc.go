// Package portfolio models and manipulates timeseries with a physical or
// financial dimension (power, energy, price, revenue) for energy-portfolio
// analysis.
//
// The central abstraction is the portfolio [Line]: a dimensioned timeseries
// value with a kind (volume, price, revenue, or complete) and a flat or
// nested shape. A flat line holds one series bundle; a nested line holds an
// ordered collection of named child lines that aggregate: volumes and
// revenues sum, prices combine so that revenue = price × energy keeps holding
// for the aggregate. Lines support arithmetic with dimensional dispatch
// (same-kind addition, scaling, the kind-changing volume × price = revenue,
// and the union of two kinds into a complete line), frequency resampling with
// per-dimension semantics, time slicing, and hedging with standard products.
//
// A portfolio [State] composes three lines (offtake volume, unsourced market
// price, and what has been sourced) into the full procurement picture, with
// derived unsourced, net-position and total-cost views.
//
// All values are immutable; every operation returns a new instance, so
// concurrent use is safe by construction. Construction and binary arithmetic
// go through an [Algebra], which carries the unit registry (package unit),
// the consistency tolerance, and the warning sink for the single lossy
// operation (adding lines of different shapes). Series storage, the regular
// time index and the resampling engine live in package tseries.
package portfolio
