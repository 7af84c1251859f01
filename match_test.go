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

//go:build !integration

package navigation

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// MatchTestSuite tests path matching against a declared tree
type MatchTestSuite struct {
	suite.Suite

	tree *Tree
}

func (suite *MatchTestSuite) SetupTest() {
	suite.tree = MustNewTree([]*Route{
		NewRoute("/").SetBuilder(page),
		NewRoute("/users").SetBuilder(page).AddChildren(
			NewRoute("/:id").SetBuilder(page).AddChildren(
				NewRoute("/posts/:post_id").SetBuilder(page),
			),
		),
		NewRoute("/posts/:id").SetBuilder(page),
	})
}

// TestMatching tests basic matching, parameter capture, and not-found
func (suite *MatchTestSuite) TestMatching() {
	tests := []struct {
		path   string
		ok     bool
		depth  int
		params map[string]string
	}{
		{"/", true, 1, map[string]string{}},
		{"/users", true, 1, map[string]string{}},
		{"/users/123", true, 2, map[string]string{"id": "123"}},
		{"/users/123/posts/456", true, 3, map[string]string{"id": "123", "post_id": "456"}},
		{"/posts/789", true, 2, map[string]string{"id": "789"}},
		{"/nonexistent", false, 0, nil},
		{"/users/123/posts", false, 0, nil},
		{"/users/123/posts/456/comments", false, 0, nil},
	}

	for _, tt := range tests {
		suite.Run(tt.path, func() {
			stack, ok := suite.tree.Match(tt.path)
			suite.Equal(tt.ok, ok, "match outcome for %s", tt.path)
			if !tt.ok {
				suite.Nil(stack)
				return
			}

			suite.Len(stack, tt.depth)
			merged := mergeParams(stack)
			suite.Equal(tt.params, merged)
		})
	}
}

// TestStackMirrorsAncestry tests that the stack is ordered root to leaf and
// full paths accumulate substituted parameters
func (suite *MatchTestSuite) TestStackMirrorsAncestry() {
	stack, ok := suite.tree.Match("/users/123/posts/456")
	suite.Require().True(ok)
	suite.Require().Len(stack, 3)

	suite.Equal("/users", stack[0].FullPath())
	suite.Equal("/users/123", stack[1].FullPath())
	suite.Equal("/users/123/posts/456", stack[2].FullPath())

	// Per-route captures stay separate; only the merged view unions them.
	suite.Empty(stack[0].Params())
	suite.Equal("123", stack[1].Param("id"))
	suite.Equal("456", stack[2].Param("post_id"))
}

// TestRootDescent tests that a root-pattern route with children matches
// nested paths through descent
func (suite *MatchTestSuite) TestRootDescent() {
	tree := MustNewTree([]*Route{
		NewRoute("/").SetBuilder(page).AddChildren(
			NewRoute("/family/:fid").SetBuilder(page),
		),
	})

	stack, ok := tree.Match("/family/1")
	suite.Require().True(ok)
	suite.Require().Len(stack, 2)
	suite.Equal("/", stack[0].FullPath())
	suite.Equal("/family/1", stack[1].FullPath())
}

// TestEmptyPathMatchesRootOnly tests the empty-path edge case
func (suite *MatchTestSuite) TestEmptyPathMatchesRootOnly() {
	_, ok := suite.tree.Match("")
	suite.True(ok, "empty path matches the root-pattern route")

	noRoot := MustNewTree([]*Route{NewRoute("/users").SetBuilder(page)})
	_, ok = noRoot.Match("/")
	suite.False(ok, "no root-pattern route declared")
}

func TestMatchSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(MatchTestSuite))
}

// TestFirstMatchWins tests that a literal sibling declared before a
// parameter sibling always wins for its exact path
func TestFirstMatchWins(t *testing.T) {
	t.Parallel()

	literal := NewRoute("/a").SetBuilder(page)
	param := NewRoute("/:x").SetBuilder(page)
	tree := MustNewTree([]*Route{literal, param})

	stack, ok := tree.Match("/a")
	if !ok || stack[0].Route() != literal {
		t.Fatalf("expected literal sibling to win for /a")
	}

	stack, ok = tree.Match("/b")
	if !ok || stack[0].Route() != param {
		t.Fatalf("expected parameter sibling to capture /b")
	}
	if stack[0].Param("x") != "b" {
		t.Fatalf("expected x=b, got %q", stack[0].Param("x"))
	}
}

// TestDeclarationOrderWins tests that the earlier of two overlapping
// siblings is chosen when both could match
func TestDeclarationOrderWins(t *testing.T) {
	t.Parallel()

	first := NewRoute("/:x").SetBuilder(page)
	second := NewRoute("/a").SetBuilder(page)
	tree := MustNewTree([]*Route{first, second})

	stack, ok := tree.Match("/a")
	if !ok || stack[0].Route() != first {
		t.Fatalf("expected first-declared parameter sibling to win for /a")
	}
}

// TestBacktracking tests that a sibling whose descent dead-ends yields to a
// later sibling that completes the match
func TestBacktracking(t *testing.T) {
	t.Parallel()

	deadEnd := NewRoute("/a/:x").SetBuilder(page) // consumes /a/b, cannot take /c
	full := NewRoute("/a/b/c").SetBuilder(page)
	tree := MustNewTree([]*Route{deadEnd, full})

	stack, ok := tree.Match("/a/b/c")
	if !ok || stack[0].Route() != full {
		t.Fatalf("expected backtracking to reach the fully matching sibling")
	}
}

// TestParamNameCollision tests that a deeper route's value wins in the
// merged parameter view while per-route captures stay independent
func TestParamNameCollision(t *testing.T) {
	t.Parallel()

	tree := MustNewTree([]*Route{
		NewRoute("/org/:id").SetBuilder(page).AddChildren(
			NewRoute("/team/:id").SetBuilder(page),
		),
	})

	stack, ok := tree.Match("/org/1/team/2")
	if !ok {
		t.Fatal("expected match")
	}
	if got := stack[0].Param("id"); got != "1" {
		t.Fatalf("ancestor capture: want 1, got %q", got)
	}
	if got := stack[1].Param("id"); got != "2" {
		t.Fatalf("leaf capture: want 2, got %q", got)
	}
	if got := mergeParams(stack)["id"]; got != "2" {
		t.Fatalf("merged view: deeper value must win, got %q", got)
	}
}

// TestMatchDeterminism tests that repeated matching yields identical results
func TestMatchDeterminism(t *testing.T) {
	t.Parallel()

	tree := MustNewTree([]*Route{
		NewRoute("/family/:fid").SetBuilder(page).AddChildren(
			NewRoute("/person/:pid").SetBuilder(page),
		),
	})

	first, ok := tree.Match("/family/1/person/2")
	if !ok {
		t.Fatal("expected match")
	}
	for range 10 {
		again, ok := tree.Match("/family/1/person/2")
		if !ok || len(again) != len(first) {
			t.Fatal("match result changed across identical resolutions")
		}
		for i := range again {
			if again[i].Route() != first[i].Route() || again[i].FullPath() != first[i].FullPath() {
				t.Fatal("match detail changed across identical resolutions")
			}
		}
	}
}
