// Package relgas clusters objects that are known only through their pairwise
// dissimilarities, using batch relational neural gas.
//
// What is relational neural gas?
//
//	Each prototype is a convex combination of the data objects, stored as one
//	row of a K×N coefficient matrix. Training alternates two steps:
//		• distances: A = α·D, corrected by ½·αₖ·D·αₖᵀ per prototype
//		• adaptation: rank prototypes per object, weight by exp(−rank/λ),
//		  and renormalize every row to sum to one
//	λ shrinks geometrically from its start value to 0.01 over the run.
//
// Layout:
//
//	matrix/        dense float64 matrix, validators and the kernels training needs
//	neuralgas/     prototypes, training, assignment, diagnostics and sharded training
//	cluster/       in-process collective group (all-reduce, all-gather) for shards
//	internal/config YAML configuration for the command
//	cmd/relgas     command line front end reading a CSV dissimilarity matrix
//
// Quick start:
//
//	g, _ := neuralgas.New(3, D.Cols())
//	_, _ = g.Train(ctx, D, 100)
//	assignments, _ := g.Use(D)
//
//	go install github.com/katalvlaran/relgas/cmd/relgas@latest
package relgas
