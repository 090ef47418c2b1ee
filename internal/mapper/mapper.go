// Package mapper converts between domain models and transport DTOs.
package mapper

import (
	"decision-log-workflow/internal/api"
	"decision-log-workflow/internal/entities"
)

// ToAPICommit maps entities.Commit to transport model.
func ToAPICommit(c entities.Commit) api.Commit {
	return api.Commit{
		CommitId:  c.ID,
		Type:      string(c.Type),
		AuthorId:  c.AuthorID,
		Message:   c.Message,
		RepliesTo: c.RepliesTo,
		CreatedAt: c.CreatedAt,
	}
}

// ToAPIBranch maps entities.Branch to transport model.
func ToAPIBranch(b entities.Branch) api.Branch {
	commits := make([]api.Commit, 0, len(b.Commits))
	for _, c := range b.Commits {
		commits = append(commits, ToAPICommit(c))
	}
	return api.Branch{
		BranchId:    b.ID,
		IssueId:     b.IssueID,
		Name:        b.Name,
		Description: b.Description,
		Status:      string(b.Status),
		Commits:     commits,
		CreatedAt:   b.CreatedAt,
	}
}

// ToAPIBranchList maps a slice of branches to transport slice.
func ToAPIBranchList(list []entities.Branch) []api.Branch {
	res := make([]api.Branch, 0, len(list))
	for _, b := range list {
		res = append(res, ToAPIBranch(b))
	}
	return res
}

// ToAPIIssue maps entities.Issue to transport model.
func ToAPIIssue(i entities.Issue) api.Issue {
	return api.Issue{
		IssueId:     i.ID,
		Title:       i.Title,
		Description: i.Description,
		AuthorId:    i.AuthorID,
		Status:      string(i.Status),
		Branches:    ToAPIBranchList(i.Branches),
		CreatedAt:   i.CreatedAt,
	}
}

// ToAPIIssueList maps a slice of issues to transport slice.
func ToAPIIssueList(list []entities.Issue) []api.Issue {
	res := make([]api.Issue, 0, len(list))
	for _, i := range list {
		res = append(res, ToAPIIssue(i))
	}
	return res
}

// ToAPIReview maps entities.Review to transport model.
func ToAPIReview(r entities.Review) api.Review {
	return api.Review{
		ReviewId:   r.ID,
		ReviewerId: r.ReviewerID,
		Comment:    r.Comment,
		Category:   string(r.Category),
		CreatedAt:  r.CreatedAt,
	}
}

// ToAPIPull maps entities.PullRequest to transport model.
func ToAPIPull(pr entities.PullRequest) api.PullRequest {
	reviews := make([]api.Review, 0, len(pr.Reviews))
	for _, r := range pr.Reviews {
		reviews = append(reviews, ToAPIReview(r))
	}
	branchIds := make([]string, len(pr.BranchIDs))
	copy(branchIds, pr.BranchIDs)
	return api.PullRequest{
		PullRequestId: pr.ID,
		IssueId:       pr.IssueID,
		Title:         pr.Title,
		Description:   pr.Description,
		AuthorId:      pr.AuthorID,
		BranchIds:     branchIds,
		Target:        pr.Target,
		Status:        string(pr.Status),
		Reviews:       reviews,
		CreatedAt:     pr.CreatedAt,
	}
}

// ToAPIPullList maps a slice of PRs to transport slice.
func ToAPIPullList(list []entities.PullRequest) []api.PullRequest {
	res := make([]api.PullRequest, 0, len(list))
	for _, pr := range list {
		res = append(res, ToAPIPull(pr))
	}
	return res
}

// ToAPIDecision maps entities.DecisionRecord to transport model.
func ToAPIDecision(r entities.DecisionRecord) api.DecisionRecord {
	return api.DecisionRecord{
		DecisionId:      r.ID,
		IssueId:         r.IssueID,
		IssueTitle:      r.IssueTitle,
		TeamPath:        r.TeamPath,
		Decision:        r.Decision,
		DecisionMaker:   r.DecisionMaker,
		DecisionOpinion: r.DecisionOpinion,
		DecisionReasons: append([]string(nil), r.DecisionReasons...),
		PrRationale:     append([]string(nil), r.PRRationale...),
		EvidenceSummary: append([]string(nil), r.EvidenceSummary...),
		MergedBranchIds: append([]string(nil), r.MergedBranchIDs...),
		PrId:            r.PRID,
		ReviewComments:  append([]string(nil), r.ReviewComments...),
		CreatedAt:       r.CreatedAt,
	}
}

// ToAPIDecisionList maps a slice of decision records to transport slice.
func ToAPIDecisionList(list []entities.DecisionRecord) []api.DecisionRecord {
	res := make([]api.DecisionRecord, 0, len(list))
	for _, r := range list {
		res = append(res, ToAPIDecision(r))
	}
	return res
}
