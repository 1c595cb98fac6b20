package main

type FlagType int
type FlagMap map[FlagType]string

const (
	modelPath FlagType = iota
	modelID
	outputPath

	cataloguePath
	updatesPath

	logFormat
)
