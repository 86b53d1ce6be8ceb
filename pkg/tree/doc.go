// Package tree provides typed models for the fixture factory. A Model
// hydrates resolved snapshots into a Go struct and hands out Nodes that
// support JSON patches, JSON pointer lookups and plain-data snapshots.
package tree
