package consensus

import (
	"fmt"
	"slices"
	"time"

	"github.com/edvin/mailwatch/internal/resolver"
)

// DefaultMinimumQuorum is the number of successful resolver responses
// required before consensus is attempted.
const DefaultMinimumQuorum = 2

// Candidate is one distinct record value and the resolvers that reported it.
type Candidate struct {
	Key       string
	Sample    resolver.Answer
	Resolvers []string
	// Observed is the most recent response time among the agreeing resolvers.
	Observed time.Time
	Count    int
}

// InsufficientResponsesError is returned when fewer resolvers answered than
// the minimum quorum.
type InsufficientResponsesError struct {
	Got      int
	Required int
}

func (e *InsufficientResponsesError) Error() string {
	return fmt.Sprintf("insufficient dns responses: got %d, need %d", e.Got, e.Required)
}

// NoConsensusError is returned when enough resolvers answered but no record
// reached majority agreement.
type NoConsensusError struct {
	Responses int
	Required  int
	BestCount int
}

func (e *NoConsensusError) Error() string {
	return fmt.Sprintf("no consensus across %d dns responses: need %d agreeing, best was %d",
		e.Responses, e.Required, e.BestCount)
}

// MinAgree returns the simple majority for n responses.
func MinAgree(n int) int {
	return n/2 + 1
}

// Compute selects the majority-agreed records from the responses.
//
// Every key counts at most once per resolver. A key wins when its count is
// at least MinAgree(len(responses)) and equal to the highest count of any
// key, so several distinct records can win together (an MX set), but a
// value that merely clears the majority loses to a strictly better agreed
// one. Winners are returned in the order their keys were first seen.
func Compute(responses []resolver.Response, minQuorum int) ([]Candidate, error) {
	if minQuorum <= 0 {
		minQuorum = DefaultMinimumQuorum
	}
	if len(responses) < minQuorum {
		return nil, &InsufficientResponsesError{Got: len(responses), Required: minQuorum}
	}

	t := tally(responses)

	minAgree := MinAgree(len(responses))
	highest := minAgree
	best := 0
	for _, c := range t.candidates {
		highest = max(highest, c.Count)
		best = max(best, c.Count)
	}

	var winners []Candidate
	for _, key := range t.order {
		c := t.candidates[key]
		if c.Count == highest && c.Count >= minAgree {
			winners = append(winners, *c)
		}
	}

	if len(winners) == 0 {
		return nil, &NoConsensusError{Responses: len(responses), Required: minAgree, BestCount: best}
	}
	return winners, nil
}

type tallyTable struct {
	order      []string
	candidates map[string]*Candidate
}

func tally(responses []resolver.Response) tallyTable {
	t := tallyTable{candidates: make(map[string]*Candidate)}

	for _, resp := range responses {
		seen := make(map[string]struct{}, len(resp.Answers))
		for _, a := range resp.Answers {
			key := Key(a)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			c, ok := t.candidates[key]
			if !ok {
				c = &Candidate{Key: key, Sample: a, Observed: resp.Observed}
				t.candidates[key] = c
				t.order = append(t.order, key)
			}
			if slices.Contains(c.Resolvers, resp.Resolver) {
				continue
			}
			c.Resolvers = append(c.Resolvers, resp.Resolver)
			c.Count++
			if resp.Observed.After(c.Observed) {
				c.Observed = resp.Observed
			}
		}
	}
	return t
}
