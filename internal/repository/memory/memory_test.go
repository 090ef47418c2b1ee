package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"decision-log-workflow/internal/entities"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStore() *Store {
	return New(zap.NewNop().Sugar())
}

func seedIssue(t *testing.T, s *Store, id, title string) *entities.Issue {
	t.Helper()
	issue, err := s.CreateIssue(context.Background(), entities.Issue{
		ID: id, Title: title, AuthorID: "u1", Status: entities.IssueOpen, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return issue
}

func seedBranch(t *testing.T, s *Store, issueID, id, name string) *entities.Branch {
	t.Helper()
	branch, err := s.CreateBranch(context.Background(), entities.Branch{
		ID: id, IssueID: issueID, Name: name, Status: entities.BranchActive, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return branch
}

func seedCommit(t *testing.T, s *Store, branchID, id string, typ entities.CommitType, msg string, at time.Time) {
	t.Helper()
	_, err := s.AppendCommit(context.Background(), branchID, entities.Commit{
		ID: id, Type: typ, AuthorID: "u1", Message: msg, CreatedAt: at,
	})
	require.NoError(t, err)
}

func seedPR(t *testing.T, s *Store, id, issueID string, branchIDs ...string) *entities.PullRequest {
	t.Helper()
	pr, err := s.CreatePR(context.Background(), entities.PullRequest{
		ID: id, IssueID: issueID, Title: "proposal", AuthorID: "u1",
		Description: "- rationale line",
		BranchIDs:   branchIDs, Target: entities.TargetMain,
		Status: entities.StatusOpen, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return pr
}

func TestStore_MergeFullFlow(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	base := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	seedIssue(t, s, "iss-1", "배포를 언제 할까?")
	seedBranch(t, s, "iss-1", "br-today", "deploy_today")
	seedBranch(t, s, "iss-1", "br-tomorrow", "deploy_tomorrow")

	seedCommit(t, s, "br-today", "c1", entities.CommitInfo, "QA 완료, 심각한 버그 없음", base)
	seedCommit(t, s, "br-today", "c2", entities.CommitOpinion, "오늘 바로 배포하자", base.Add(time.Minute))
	seedCommit(t, s, "br-tomorrow", "c3", entities.CommitOpinion, "내일 오전 트래픽 낮을 때 배포하자", base.Add(2*time.Minute))
	seedCommit(t, s, "br-today", "c4", entities.CommitTodo, "롤백 계획 준비", base.Add(3*time.Minute))

	seedPR(t, s, "pr-1", "iss-1", "br-today", "br-tomorrow")
	_, err := s.AddReview(ctx, "pr-1", entities.Review{
		ID: "rev-1", ReviewerID: "u2", Comment: "동의합니다", Category: entities.ReviewApprove, CreatedAt: base,
	})
	require.NoError(t, err)

	rec, err := s.MergePR(ctx, "pr-1", entities.MergeInput{
		ActorID:           "u1",
		Decision:          "내일 오전 배포 진행",
		Opinion:           "deploy_tomorrow 의견 채택",
		Reasons:           []string{"안전성 우선"},
		SelectedCommitIDs: []string{"c4", "c2", "c1", "c3"},
		TeamPath:          "Platform > Backend",
	})
	require.NoError(t, err)

	// evidence keeps original commit timestamp order, not selection order
	require.Equal(t, []string{
		"QA 완료, 심각한 버그 없음",
		"오늘 바로 배포하자",
		"내일 오전 트래픽 낮을 때 배포하자",
		"롤백 계획 준비",
	}, rec.EvidenceSummary)
	require.Equal(t, []string{"br-today", "br-tomorrow"}, rec.MergedBranchIDs)
	require.Equal(t, []string{"u2 (APPROVE): 동의합니다"}, rec.ReviewComments)

	pr, err := s.GetPR(ctx, "pr-1")
	require.NoError(t, err)
	require.Equal(t, entities.StatusMerged, pr.Status)

	issue, err := s.GetIssue(ctx, "iss-1")
	require.NoError(t, err)
	require.Equal(t, entities.IssueClosed, issue.Status)
	for _, b := range issue.Branches {
		require.Equal(t, entities.BranchMerged, b.Status)
	}

	records, err := s.ListDecisions(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestStore_RejectLeavesIssueOpen(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	seedIssue(t, s, "iss-1", "topic")
	seedBranch(t, s, "iss-1", "br-1", "option_a")
	seedPR(t, s, "pr-1", "iss-1", "br-1")

	pr, err := s.RejectPR(ctx, "pr-1")
	require.NoError(t, err)
	require.Equal(t, entities.StatusRejected, pr.Status)

	issue, err := s.GetIssue(ctx, "iss-1")
	require.NoError(t, err)
	require.Equal(t, entities.IssueOpen, issue.Status)
	require.Equal(t, entities.BranchActive, issue.Branches[0].Status)

	records, err := s.ListDecisions(ctx)
	require.NoError(t, err)
	require.Empty(t, records)

	// a fresh PR over the same branch is still possible
	seedPR(t, s, "pr-2", "iss-1", "br-1")
}

func TestStore_SecondMergeFails(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	seedIssue(t, s, "iss-1", "topic")
	seedBranch(t, s, "iss-1", "br-1", "option_a")
	seedPR(t, s, "pr-1", "iss-1", "br-1")

	input := entities.MergeInput{ActorID: "u1", Decision: "d", Opinion: "o", Reasons: []string{"r"}}
	_, err := s.MergePR(ctx, "pr-1", input)
	require.NoError(t, err)

	_, err = s.MergePR(ctx, "pr-1", input)
	require.ErrorIs(t, err, entities.ErrInvalidState)

	records, err := s.ListDecisions(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestStore_ClosedIssueRejectsNewWork(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	seedIssue(t, s, "iss-1", "topic")
	seedBranch(t, s, "iss-1", "br-1", "option_a")
	seedBranch(t, s, "iss-1", "br-2", "option_b")
	seedPR(t, s, "pr-1", "iss-1", "br-1")

	_, err := s.MergePR(ctx, "pr-1", entities.MergeInput{ActorID: "u1", Decision: "d", Opinion: "o", Reasons: []string{"r"}})
	require.NoError(t, err)

	_, err = s.CreateBranch(ctx, entities.Branch{ID: "br-3", IssueID: "iss-1", Name: "late", Status: entities.BranchActive})
	require.ErrorIs(t, err, entities.ErrInvalidState)

	_, err = s.CreatePR(ctx, entities.PullRequest{ID: "pr-2", IssueID: "iss-1", BranchIDs: []string{"br-2"}, Status: entities.StatusOpen})
	require.ErrorIs(t, err, entities.ErrInvalidState)

	_, err = s.AppendCommit(ctx, "br-1", entities.Commit{ID: "c9", Type: entities.CommitInfo, AuthorID: "u1", Message: "late"})
	require.ErrorIs(t, err, entities.ErrInvalidState)

	// br-2 was not part of the merged PR and stays ACTIVE, but the closed
	// issue refuses commits through it too
	issue, err := s.GetIssue(ctx, "iss-1")
	require.NoError(t, err)
	require.Equal(t, entities.BranchActive, issue.Branches[1].Status)
	_, err = s.AppendCommit(ctx, "br-2", entities.Commit{ID: "c10", Type: entities.CommitInfo, AuthorID: "u1", Message: "late"})
	require.ErrorIs(t, err, entities.ErrInvalidState)
}

func TestStore_ClosedOverrideBlocksCommits(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	seedIssue(t, s, "iss-1", "topic")
	seedBranch(t, s, "iss-1", "br-1", "option_a")

	_, err := s.UpdateIssueStatus(ctx, "iss-1", entities.IssueClosed)
	require.NoError(t, err)

	issue, err := s.GetIssue(ctx, "iss-1")
	require.NoError(t, err)
	require.Equal(t, entities.BranchActive, issue.Branches[0].Status)

	_, err = s.AppendCommit(ctx, "br-1", entities.Commit{ID: "c1", Type: entities.CommitInfo, AuthorID: "u1", Message: "late"})
	require.ErrorIs(t, err, entities.ErrInvalidState)
}

func TestStore_CreatePRValidatesBranches(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	seedIssue(t, s, "iss-1", "topic")
	seedIssue(t, s, "iss-2", "other")
	seedBranch(t, s, "iss-1", "br-1", "option_a")
	seedBranch(t, s, "iss-2", "br-foreign", "foreign")

	_, err := s.CreatePR(ctx, entities.PullRequest{
		ID: "pr-1", IssueID: "iss-1", BranchIDs: []string{"br-1", "br-foreign"}, Status: entities.StatusOpen,
	})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	_, err = s.CreatePR(ctx, entities.PullRequest{
		ID: "pr-2", IssueID: "iss-1", BranchIDs: []string{"br-missing"}, Status: entities.StatusOpen,
	})
	require.ErrorIs(t, err, entities.ErrBranchNotFound)

	// single-branch PR is fine
	seedPR(t, s, "pr-3", "iss-1", "br-1")
}

func TestStore_AppendCommitOrderingAndReplies(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	base := time.Now().UTC()

	seedIssue(t, s, "iss-1", "topic")
	seedBranch(t, s, "iss-1", "br-1", "option_a")

	seedCommit(t, s, "br-1", "c1", entities.CommitQuestion, "why now?", base)
	seedCommit(t, s, "br-1", "c2", entities.CommitInfo, "context", base.Add(time.Second))

	target := "c1"
	branch, err := s.AppendCommit(ctx, "br-1", entities.Commit{
		ID: "c3", Type: entities.CommitNone, AuthorID: "u2", Message: "because of the release window",
		RepliesTo: &target, CreatedAt: base.Add(2 * time.Second),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"c1", "c2", "c3"}, []string{branch.Commits[0].ID, branch.Commits[1].ID, branch.Commits[2].ID})

	// reply must target a QUESTION
	info := "c2"
	_, err = s.AppendCommit(ctx, "br-1", entities.Commit{
		ID: "c4", Type: entities.CommitNone, AuthorID: "u2", Message: "x", RepliesTo: &info,
	})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	// no replies to replies
	reply := "c3"
	_, err = s.AppendCommit(ctx, "br-1", entities.Commit{
		ID: "c5", Type: entities.CommitNone, AuthorID: "u2", Message: "x", RepliesTo: &reply,
	})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	missing := "nope"
	_, err = s.AppendCommit(ctx, "br-1", entities.Commit{
		ID: "c6", Type: entities.CommitNone, AuthorID: "u2", Message: "x", RepliesTo: &missing,
	})
	require.ErrorIs(t, err, entities.ErrCommitNotFound)
}

func TestStore_DeleteReviewIdempotent(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	seedIssue(t, s, "iss-1", "topic")
	seedBranch(t, s, "iss-1", "br-1", "option_a")
	seedPR(t, s, "pr-1", "iss-1", "br-1")

	_, err := s.AddReview(ctx, "pr-1", entities.Review{ID: "rev-1", ReviewerID: "u2", Comment: "ok", Category: entities.ReviewApprove})
	require.NoError(t, err)

	pr, err := s.DeleteReview(ctx, "pr-1", "rev-1")
	require.NoError(t, err)
	require.Empty(t, pr.Reviews)

	// deleting again is a no-op
	_, err = s.DeleteReview(ctx, "pr-1", "rev-1")
	require.NoError(t, err)

	// still allowed after the PR reaches a terminal status
	_, err = s.RejectPR(ctx, "pr-1")
	require.NoError(t, err)
	_, err = s.DeleteReview(ctx, "pr-1", "rev-1")
	require.NoError(t, err)

	// but new reviews are not
	_, err = s.AddReview(ctx, "pr-1", entities.Review{ID: "rev-2", ReviewerID: "u2", Comment: "late", Category: entities.ReviewComment})
	require.ErrorIs(t, err, entities.ErrInvalidState)
}

func TestStore_UpdateIssueStatusMonotonic(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	seedIssue(t, s, "iss-1", "topic")

	_, err := s.UpdateIssueStatus(ctx, "iss-1", entities.IssueReview)
	require.NoError(t, err)
	_, err = s.UpdateIssueStatus(ctx, "iss-1", entities.IssueOpen)
	require.ErrorIs(t, err, entities.ErrInvalidState)
	_, err = s.UpdateIssueStatus(ctx, "iss-1", entities.IssueClosed)
	require.NoError(t, err)
	_, err = s.UpdateIssueStatus(ctx, "iss-1", entities.IssueReview)
	require.ErrorIs(t, err, entities.ErrInvalidState)
}

func TestStore_ConcurrentMergeSingleWinner(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	seedIssue(t, s, "iss-1", "topic")
	seedBranch(t, s, "iss-1", "br-1", "option_a")
	seedBranch(t, s, "iss-1", "br-2", "option_b")
	seedPR(t, s, "pr-1", "iss-1", "br-1")
	seedPR(t, s, "pr-2", "iss-1", "br-2")

	input := entities.MergeInput{ActorID: "u1", Decision: "d", Opinion: "o", Reasons: []string{"r"}}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, prID := range []string{"pr-1", "pr-2"} {
		wg.Add(1)
		go func(i int, prID string) {
			defer wg.Done()
			_, errs[i] = s.MergePR(ctx, prID, input)
		}(i, prID)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			require.ErrorIs(t, err, entities.ErrInvalidState)
			lost++
		}
	}
	require.Equal(t, 1, won)
	require.Equal(t, 1, lost)

	records, err := s.ListDecisions(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestStore_SnapshotsAreIsolated(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	seedIssue(t, s, "iss-1", "topic")
	seedBranch(t, s, "iss-1", "br-1", "option_a")
	seedCommit(t, s, "br-1", "c1", entities.CommitInfo, "original", time.Now().UTC())

	issue, err := s.GetIssue(ctx, "iss-1")
	require.NoError(t, err)
	issue.Branches[0].Commits[0].Message = "mutated"

	again, err := s.GetIssue(ctx, "iss-1")
	require.NoError(t, err)
	require.Equal(t, "original", again.Branches[0].Commits[0].Message)
}
