/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// LayoutOptimizerArgs holds the arguments used to configure a layout optimization run.
// Unset fields are filled by SetDefaults_LayoutOptimizerArgs.
type LayoutOptimizerArgs struct {
	metav1.TypeMeta `json:",inline"`

	// PopulationSize is the number of layouts in every generation
	PopulationSize *int32 `json:"populationSize,omitempty"`

	// Generations is the number of generations to evolve. 0 returns the best
	// of the initial random population.
	Generations *int32 `json:"generations,omitempty"`

	// MutationRate is the probability that a child gets one random swap
	MutationRate *float64 `json:"mutationRate,omitempty"`

	// ElitismFraction is the fraction of the ranked population copied unchanged
	// into the next generation
	ElitismFraction *float64 `json:"elitismFraction,omitempty"`

	// TournamentSize is the number of individuals drawn, with replacement, per tournament
	TournamentSize *int32 `json:"tournamentSize,omitempty"`

	// MaxTournamentSize bounds TournamentSize
	MaxTournamentSize *int32 `json:"maxTournamentSize,omitempty"`

	// ReportInterval is the number of generations between progress reports
	ReportInterval *int32 `json:"reportInterval,omitempty"`

	// Seed of the random generator. 0 seeds from the wall clock.
	Seed *int64 `json:"seed,omitempty"`

	// MaxWords bounds the number of corpus words read
	MaxWords *int32 `json:"maxWords,omitempty"`

	// MaxWordLength is the length in bytes beyond which corpus lines are truncated
	MaxWordLength *int32 `json:"maxWordLength,omitempty"`

	// CacheFitness memoizes the cost of every distinct layout within a run
	CacheFitness *bool `json:"cacheFitness,omitempty"`
}

// LayoutReport is the result document of an optimization run
type LayoutReport struct {
	metav1.TypeMeta `json:",inline"`

	Spec   LayoutReportSpec   `json:"spec"`
	Status LayoutReportStatus `json:"status"`
}

// LayoutReportSpec records what the run was asked to do
type LayoutReportSpec struct {
	// RunID identifies the run
	RunID string `json:"runID"`

	// Corpus is the path or name of the word list
	Corpus string `json:"corpus"`

	// Words is the number of words read from the corpus
	Words int `json:"words"`

	// Bigrams is the number of letter pairs counted in the corpus
	Bigrams int `json:"bigrams"`

	// Args are the defaulted arguments of the run
	Args LayoutOptimizerArgs `json:"args"`

	// ResolvedSeed is the seed actually used; replaying it reproduces the run
	ResolvedSeed uint64 `json:"resolvedSeed"`

	// StartedAt indicates when the run began
	StartedAt *metav1.Time `json:"startedAt"`
}

// LayoutReportStatus defines the outcome of the run
type LayoutReportStatus struct {
	// Phase represents how the run ended
	Phase LayoutReportPhase `json:"phase"`

	// CompletedGenerations is the number of generations that ran
	CompletedGenerations int `json:"completedGenerations"`

	// BestCost is the mean bigram distance of the best layout
	BestCost float64 `json:"bestCost"`

	// Rows are the letters of the best layout, top row first
	Rows []string `json:"rows"`

	// Keys maps every letter of the best layout to its key coordinate
	Keys []KeyAssignment `json:"keys"`

	// Baselines holds the cost of reference layouts on the same corpus
	Baselines []BaselineCost `json:"baselines,omitempty"`

	// History contains the ranked statistics of every generation
	History []GenerationSummary `json:"history,omitempty"`

	// FinishedAt is when the run ended
	FinishedAt *metav1.Time `json:"finishedAt"`
}

// LayoutReportPhase represents how a run ended
type LayoutReportPhase string

const (
	// LayoutReportPhaseCompleted indicates every configured generation ran
	LayoutReportPhaseCompleted LayoutReportPhase = "Completed"

	// LayoutReportPhaseCancelled indicates the run stopped early at a generation boundary
	LayoutReportPhaseCancelled LayoutReportPhase = "Cancelled"
)

// KeyAssignment places one letter on one key
type KeyAssignment struct {
	Letter string  `json:"letter"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// BaselineCost is the cost of a named reference layout
type BaselineCost struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// GenerationSummary is the cost distribution of one ranked generation
type GenerationSummary struct {
	Generation int     `json:"generation"`
	BestCost   float64 `json:"bestCost"`
	MeanCost   float64 `json:"meanCost"`
	WorstCost  float64 `json:"worstCost"`
	StdDev     float64 `json:"stdDev"`
}
