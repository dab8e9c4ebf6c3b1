// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateRequest validates the inbound (document URL, questions) pair.
//
// Validation rules:
//   - DocumentURL must be a parseable http or https URL
//   - Questions must be non-empty
//   - Every question must contain non-whitespace text
//
// All failures wrap ErrValidation.
func ValidateRequest(documentURL string, questions []string) error {
	if strings.TrimSpace(documentURL) == "" {
		return fmt.Errorf("%w: document URL is empty", ErrValidation)
	}

	u, err := url.Parse(documentURL)
	if err != nil {
		return fmt.Errorf("%w: malformed document URL: %v", ErrValidation, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: document URL scheme must be http or https", ErrValidation)
	}

	if len(questions) == 0 {
		return fmt.Errorf("%w: no questions provided", ErrValidation)
	}
	for i, q := range questions {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("%w: question %d is empty", ErrValidation, i)
		}
	}

	return nil
}
