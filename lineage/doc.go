// Package lineage turns a textual FM lineage extract into a layered
// execution plan.
//
// The pipeline is Parse (text to raw edges), BuildGraph (dedup, adjacency,
// in-degree) and Graph.Layers (breadth-first Kahn layering). Layering never
// fails: nodes that cannot be reached by in-degree propagation, because they
// sit on or behind a cycle, are collected into one trailing remainder layer.
//
// All enumeration is in first-seen order, so identical input always yields
// identical layers.
package lineage
