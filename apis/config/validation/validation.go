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

package validation

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/keyboard-ga/layout-optimizer/apis/config/v1alpha1"
)

// ValidateLayoutOptimizerArgs validates defaulted LayoutOptimizerArgs and
// reports every violation at once. A nil field is reported as required.
func ValidateLayoutOptimizerArgs(path *field.Path, args *v1alpha1.LayoutOptimizerArgs) error {
	var allErrs field.ErrorList

	allErrs = append(allErrs, validateMinInt32(path.Child("populationSize"), args.PopulationSize, 1)...)
	allErrs = append(allErrs, validateMinInt32(path.Child("generations"), args.Generations, 0)...)
	allErrs = append(allErrs, validateUnitInterval(path.Child("mutationRate"), args.MutationRate)...)
	allErrs = append(allErrs, validateUnitInterval(path.Child("elitismFraction"), args.ElitismFraction)...)
	allErrs = append(allErrs, validateMinInt32(path.Child("maxTournamentSize"), args.MaxTournamentSize, 1)...)
	allErrs = append(allErrs, validateMinInt32(path.Child("tournamentSize"), args.TournamentSize, 1)...)
	if args.TournamentSize != nil && args.MaxTournamentSize != nil && *args.TournamentSize > *args.MaxTournamentSize {
		allErrs = append(allErrs, field.Invalid(path.Child("tournamentSize"), *args.TournamentSize,
			"must not exceed maxTournamentSize"))
	}
	allErrs = append(allErrs, validateMinInt32(path.Child("reportInterval"), args.ReportInterval, 1)...)
	allErrs = append(allErrs, validateMinInt32(path.Child("maxWords"), args.MaxWords, 1)...)
	allErrs = append(allErrs, validateMinInt32(path.Child("maxWordLength"), args.MaxWordLength, 2)...)

	if args.Seed == nil {
		allErrs = append(allErrs, field.Required(path.Child("seed"), ""))
	} else if *args.Seed < 0 {
		allErrs = append(allErrs, field.Invalid(path.Child("seed"), *args.Seed, "must be non-negative"))
	}
	if args.CacheFitness == nil {
		allErrs = append(allErrs, field.Required(path.Child("cacheFitness"), ""))
	}

	return allErrs.ToAggregate()
}

func validateMinInt32(path *field.Path, v *int32, minimum int32) field.ErrorList {
	if v == nil {
		return field.ErrorList{field.Required(path, "")}
	}
	if *v < minimum {
		return field.ErrorList{field.Invalid(path, *v, fmt.Sprintf("must be at least %d", minimum))}
	}
	return nil
}

func validateUnitInterval(path *field.Path, v *float64) field.ErrorList {
	if v == nil {
		return field.ErrorList{field.Required(path, "")}
	}
	if !(*v >= 0 && *v <= 1) {
		return field.ErrorList{field.Invalid(path, *v, "must be in the range [0, 1]")}
	}
	return nil
}
