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
	"k8s.io/utils/ptr"
)

var (
	DefaultPopulationSize    int32   = 100
	DefaultGenerations       int32   = 500
	DefaultMutationRate      float64 = 0.05
	DefaultElitismFraction   float64 = 0.1
	DefaultTournamentSize    int32   = 3
	DefaultMaxTournamentSize int32   = 10
	DefaultReportInterval    int32   = 50
	DefaultSeed              int64   = 0
	DefaultMaxWords          int32   = 1000
	DefaultMaxWordLength     int32   = 63
	DefaultCacheFitness              = true
)

// SetDefaults_LayoutOptimizerArgs sets the default parameters for a layout optimization run.
func SetDefaults_LayoutOptimizerArgs(obj *LayoutOptimizerArgs) {
	if obj.APIVersion == "" {
		obj.APIVersion = SchemeGroupVersion.String()
	}
	if obj.Kind == "" {
		obj.Kind = LayoutOptimizerArgsKind
	}
	if obj.PopulationSize == nil {
		obj.PopulationSize = ptr.To(DefaultPopulationSize)
	}
	if obj.Generations == nil {
		obj.Generations = ptr.To(DefaultGenerations)
	}
	if obj.MutationRate == nil {
		obj.MutationRate = ptr.To(DefaultMutationRate)
	}
	if obj.ElitismFraction == nil {
		obj.ElitismFraction = ptr.To(DefaultElitismFraction)
	}
	if obj.TournamentSize == nil {
		obj.TournamentSize = ptr.To(DefaultTournamentSize)
	}
	if obj.MaxTournamentSize == nil {
		obj.MaxTournamentSize = ptr.To(DefaultMaxTournamentSize)
	}
	if obj.ReportInterval == nil {
		obj.ReportInterval = ptr.To(DefaultReportInterval)
	}
	if obj.Seed == nil {
		obj.Seed = ptr.To(DefaultSeed)
	}
	if obj.MaxWords == nil {
		obj.MaxWords = ptr.To(DefaultMaxWords)
	}
	if obj.MaxWordLength == nil {
		obj.MaxWordLength = ptr.To(DefaultMaxWordLength)
	}
	if obj.CacheFitness == nil {
		obj.CacheFitness = ptr.To(DefaultCacheFitness)
	}
}
