package entities

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func commitAt(id string, typ CommitType, msg string, at time.Time) Commit {
	return Commit{ID: id, Type: typ, AuthorID: "u1", Message: msg, CreatedAt: at}
}

func TestEvidenceSetOrderAndDedup(t *testing.T) {
	base := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	shared := commitAt("c2", CommitOpinion, "second", base.Add(2*time.Minute))
	a := Branch{ID: "b1", Commits: []Commit{
		commitAt("c3", CommitTodo, "third", base.Add(3*time.Minute)),
		shared,
	}}
	b := Branch{ID: "b2", Commits: []Commit{
		shared,
		commitAt("c1", CommitInfo, "first", base.Add(time.Minute)),
	}}

	union := EvidenceSet([]Branch{a, b})
	require.Len(t, union, 3)
	require.Equal(t, []string{"c1", "c2", "c3"}, []string{union[0].ID, union[1].ID, union[2].ID})
}

func TestSynthesizeDecisionEvidenceSubsetInTimestampOrder(t *testing.T) {
	base := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	issue := Issue{ID: "iss-1", Title: "배포를 언제 할까?", Status: IssueOpen}
	branches := []Branch{
		{ID: "b_today", IssueID: issue.ID, Name: "deploy_today", Commits: []Commit{
			commitAt("c1", CommitInfo, "QA done, no critical issues", base),
			commitAt("c2", CommitOpinion, "ship now", base.Add(time.Minute)),
			commitAt("c3", CommitTodo, "prepare rollback plan", base.Add(2*time.Minute)),
		}},
		{ID: "b_tomorrow", IssueID: issue.ID, Name: "deploy_tomorrow", Commits: []Commit{
			commitAt("c4", CommitOpinion, "wait for morning traffic dip", base.Add(30*time.Second)),
		}},
	}
	pr := PullRequest{
		ID:          "pr-1",
		IssueID:     issue.ID,
		Description: "- low traffic window\n- team availability",
		BranchIDs:   []string{"b_today", "b_tomorrow"},
		Reviews: []Review{
			{ID: "rev-1", ReviewerID: "u2", Comment: "agreed", Category: ReviewApprove},
		},
	}

	// selection order is scrambled and includes an id outside the union
	rec := SynthesizeDecision(issue, pr, branches, MergeInput{
		ActorID:           "u1",
		Decision:          "내일 오전 배포 진행",
		Opinion:           "deploy_tomorrow 의견 채택",
		Reasons:           []string{"안전성 우선"},
		SelectedCommitIDs: []string{"c3", "ghost", "c1", "c4"},
		TeamPath:          "Platform > Backend",
	})

	want := []string{
		"QA done, no critical issues",
		"wait for morning traffic dip",
		"prepare rollback plan",
	}
	if diff := cmp.Diff(want, rec.EvidenceSummary); diff != "" {
		t.Fatalf("evidence summary mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, []string{"low traffic window", "team availability"}, rec.PRRationale)
	require.Equal(t, []string{"b_today", "b_tomorrow"}, rec.MergedBranchIDs)
	require.Equal(t, []string{"u2 (APPROVE): agreed"}, rec.ReviewComments)
	require.Equal(t, "pr-1", rec.PRID)
	require.Equal(t, issue.Title, rec.IssueTitle)
	require.True(t, strings.HasPrefix(rec.ID, "dr-"))
	require.False(t, rec.CreatedAt.IsZero())
}

func TestSynthesizeDecisionEmptySelection(t *testing.T) {
	issue := Issue{ID: "iss-1", Title: "t"}
	pr := PullRequest{ID: "pr-1", BranchIDs: []string{"b1"}}
	rec := SynthesizeDecision(issue, pr, []Branch{{ID: "b1"}}, MergeInput{ActorID: "u1", Decision: "d", Opinion: "o"})
	require.Empty(t, rec.EvidenceSummary)
	require.Empty(t, rec.PRRationale)
}

func TestSplitBullets(t *testing.T) {
	require.Equal(t,
		[]string{"first", "second", "third"},
		SplitBullets("- first\n\n  second  \n- third\n"),
	)
	require.Empty(t, SplitBullets(""))
}

func TestDecisionRecordMarkdownLossless(t *testing.T) {
	rec := DecisionRecord{
		IssueTitle:      "when to deploy",
		TeamPath:        "Platform > Backend",
		Decision:        "deploy tomorrow morning",
		DecisionMaker:   "u1",
		DecisionOpinion: "deploy_tomorrow",
		DecisionReasons: []string{"safety first"},
		PRRationale:     []string{"low traffic window"},
		EvidenceSummary: []string{"QA done"},
		ReviewComments:  []string{"u2 (APPROVE): agreed"},
	}
	md := rec.Markdown()
	for _, want := range []string{
		"when to deploy", "Platform > Backend", "deploy tomorrow morning",
		"u1", "deploy_tomorrow", "safety first", "low traffic window",
		"QA done", "u2 (APPROVE): agreed",
	} {
		require.Contains(t, md, want)
	}
}

func TestIssueStatusTransitions(t *testing.T) {
	require.True(t, IssueOpen.CanTransition(IssueReview))
	require.True(t, IssueOpen.CanTransition(IssueClosed))
	require.True(t, IssueReview.CanTransition(IssueClosed))
	require.False(t, IssueClosed.CanTransition(IssueOpen))
	require.False(t, IssueReview.CanTransition(IssueOpen))
	require.False(t, IssueClosed.CanTransition(IssueReview))
}
