// Package entities contains core business entities.
package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DecisionRecord is the immutable artifact produced when a PR is merged. It
// references its issue, branches and PR by id and snapshots everything else.
type DecisionRecord struct {
	ID              string
	IssueID         string
	IssueTitle      string
	TeamPath        string
	Decision        string
	DecisionMaker   string
	DecisionOpinion string
	DecisionReasons []string
	PRRationale     []string
	EvidenceSummary []string
	MergedBranchIDs []string
	PRID            string
	ReviewComments  []string
	CreatedAt       time.Time
}

// MergeInput carries the merging actor's contribution to a decision record.
type MergeInput struct {
	ActorID           string
	Decision          string
	Opinion           string
	Reasons           []string
	SelectedCommitIDs []string
	TeamPath          string
}

// SynthesizeDecision builds a DecisionRecord from a merged PR, its issue and
// source branches, and the merging actor's input. Selected commit ids outside
// the union of the PR's branch commits are ignored. The evidence summary
// preserves original commit timestamp order regardless of selection order.
// The record's id and timestamp are generated here and never change.
func SynthesizeDecision(issue Issue, pr PullRequest, branches []Branch, in MergeInput) DecisionRecord {
	selected := make(map[string]struct{}, len(in.SelectedCommitIDs))
	for _, id := range in.SelectedCommitIDs {
		selected[id] = struct{}{}
	}

	evidence := make([]string, 0, len(selected))
	for _, c := range EvidenceSet(branches) {
		if _, ok := selected[c.ID]; ok {
			evidence = append(evidence, c.Message)
		}
	}

	branchIDs := make([]string, 0, len(branches))
	for _, b := range branches {
		branchIDs = append(branchIDs, b.ID)
	}

	reviews := make([]string, 0, len(pr.Reviews))
	for _, r := range pr.Reviews {
		reviews = append(reviews, fmt.Sprintf("%s (%s): %s", r.ReviewerID, r.Category, r.Comment))
	}

	return DecisionRecord{
		ID:              "dr-" + uuid.NewString(),
		IssueID:         issue.ID,
		IssueTitle:      issue.Title,
		TeamPath:        in.TeamPath,
		Decision:        in.Decision,
		DecisionMaker:   in.ActorID,
		DecisionOpinion: in.Opinion,
		DecisionReasons: append([]string(nil), in.Reasons...),
		PRRationale:     SplitBullets(pr.Description),
		EvidenceSummary: evidence,
		MergedBranchIDs: branchIDs,
		PRID:            pr.ID,
		ReviewComments:  reviews,
		CreatedAt:       time.Now().UTC(),
	}
}

// SplitBullets splits free text into discrete lines, dropping blanks and a
// leading bullet marker. Used to take PR rationale verbatim from the PR
// description.
func SplitBullets(text string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- "))
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

const recordRule = "────────────────────────────────────────"

// Markdown renders the record as a human-readable export. Every field of the
// record is recoverable from the rendering.
func (r DecisionRecord) Markdown() string {
	var b strings.Builder
	b.WriteString(recordRule + "\n")
	b.WriteString("Decision Record\n")
	b.WriteString(recordRule + "\n")
	fmt.Fprintf(&b, "Topic: %s\n", r.IssueTitle)
	fmt.Fprintf(&b, "%s\n", r.TeamPath)
	fmt.Fprintf(&b, "Decision maker: %s\n", r.DecisionMaker)
	fmt.Fprintf(&b, "Decision: %s\n", r.Decision)
	b.WriteString("\nDecision opinion\n")
	for _, e := range r.EvidenceSummary {
		fmt.Fprintf(&b, "  - %s\n", e)
	}
	fmt.Fprintf(&b, "  - %s\n", r.DecisionOpinion)
	b.WriteString("\nDecision reasons (decision maker):\n")
	for _, reason := range r.DecisionReasons {
		fmt.Fprintf(&b, "  - %s\n", reason)
	}
	for _, rv := range r.ReviewComments {
		fmt.Fprintf(&b, "  - %s\n", rv)
	}
	b.WriteString("\nRationale (PR author):\n")
	for _, p := range r.PRRationale {
		fmt.Fprintf(&b, "  - %s\n", p)
	}
	b.WriteString(recordRule + "\n")
	return b.String()
}
