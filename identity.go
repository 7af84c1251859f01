// Copyright 2025 The Rivaas Authors
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

package navigation

import "github.com/google/uuid"

// assignIdentity stamps every route of a newly resolved stack with an
// identity token, reusing the previous stack's token at positions that
// represent the same logical page instance.
//
// Two matched routes at the same stack position are the same instance when
// their route definition is identical and, if the route declares an identity
// key function, the keys derived from the old and new parameters are equal.
// Without a key function the definition alone decides, so a resolution that
// only changes captured parameters updates the existing instance in place.
//
// The first position that differs breaks the ancestry: every deeper position
// is a new instance even if its definition matches, because the same page
// under a different ancestor is a different page.
func assignIdentity(prev, next []*MatchedRoute) {
	ancestryIntact := true

	for i, m := range next {
		if ancestryIntact && i < len(prev) && sameInstance(prev[i], m) {
			m.token = prev[i].token
			continue
		}
		ancestryIntact = false
		m.token = IdentityToken(uuid.NewString())
	}
}

func sameInstance(prev, next *MatchedRoute) bool {
	if prev.route != next.route {
		return false
	}
	if key := next.route.identityKey; key != nil {
		return key(prev.params) == key(next.params)
	}

	return true
}
