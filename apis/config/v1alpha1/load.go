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
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// DecodeArgs strictly decodes YAML or JSON into LayoutOptimizerArgs. Unknown
// fields and a foreign apiVersion or kind are rejected. Defaults are not applied.
func DecodeArgs(data []byte) (*LayoutOptimizerArgs, error) {
	args := &LayoutOptimizerArgs{}
	if err := yaml.UnmarshalStrict(data, args); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", LayoutOptimizerArgsKind, err)
	}
	if args.APIVersion != "" && args.APIVersion != SchemeGroupVersion.String() {
		return nil, fmt.Errorf("unsupported apiVersion %q, want %q", args.APIVersion, SchemeGroupVersion.String())
	}
	if args.Kind != "" && args.Kind != LayoutOptimizerArgsKind {
		return nil, fmt.Errorf("unsupported kind %q, want %q", args.Kind, LayoutOptimizerArgsKind)
	}
	return args, nil
}

// LoadArgs reads and decodes the file at path.
func LoadArgs(path string) (*LayoutOptimizerArgs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeArgs(data)
}

// EncodeReport renders a report as YAML.
func EncodeReport(r *LayoutReport) ([]byte, error) {
	if r.APIVersion == "" {
		r.APIVersion = SchemeGroupVersion.String()
	}
	if r.Kind == "" {
		r.Kind = LayoutReportKind
	}
	return yaml.Marshal(r)
}
