// Package publish maintains the single report comment on a pull request.
// The comment is identified by the report heading prefix; at most one is
// ever created per pull request.
package publish

import (
	"context"
	"fmt"
	"strings"
	"time"

	gh "github.com/buildwatch/depreport/pkg/github"
	"github.com/buildwatch/depreport/pkg/report"
)

// CommentService is the slice of the GitHub API the publisher needs.
// *github.Client satisfies it.
type CommentService interface {
	ListIssueComments(ctx context.Context, owner, repo string, issueNumber int) ([]gh.IssueComment, error)
	CreateIssueComment(ctx context.Context, owner, repo string, issueNumber int, body string) (int64, error)
	EditIssueComment(ctx context.Context, owner, repo string, commentID int64, body string) error
}

// Action types recorded in a Result.
const (
	ActionCreated = "created_comment"
	ActionUpdated = "updated_comment"
	ActionSkipped = "skipped"
)

// Action is a single step taken while publishing.
type Action struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Result records the outcome of a publish attempt. Create and update
// rejections (typically missing write permission on fork-originated pull
// requests) are captured in Err rather than returned: publishing is
// best-effort and never fails the run.
type Result struct {
	Actions     []Action  `json:"actions"`
	PublishedAt time.Time `json:"published_at"`

	// Err is a non-fatal create/update failure, nil on success.
	Err error `json:"-"`
}

// Publisher creates or updates the report comment on one pull request.
type Publisher struct {
	Comments CommentService
	Owner    string
	Repo     string
	Number   int
}

// Publish locates the previous report comment and updates it in place, or
// creates a new one. When the report is flagged OnlyUpdate and no previous
// comment exists, nothing is posted at all.
//
// A failed comment scan is returned as an error and fails the run; a failed
// create or edit only lands in Result.Err.
func (p *Publisher) Publish(ctx context.Context, rep report.Report) (Result, error) {
	res := Result{PublishedAt: time.Now()}

	comments, err := p.Comments.ListIssueComments(ctx, p.Owner, p.Repo, p.Number)
	if err != nil {
		return res, fmt.Errorf("failed to scan for a previous report comment: %w", err)
	}

	// First match wins; later comments with the same heading are ignored.
	var previous *gh.IssueComment
	for i := range comments {
		if strings.HasPrefix(comments[i].Body, report.Heading) {
			previous = &comments[i]
			break
		}
	}

	switch {
	case previous != nil:
		if err := p.Comments.EditIssueComment(ctx, p.Owner, p.Repo, previous.CommentID, rep.Body); err != nil {
			res.Err = err
			return res, nil
		}
		res.Actions = append(res.Actions, Action{
			Type:        ActionUpdated,
			Description: fmt.Sprintf("updated report comment %d on %s/%s#%d", previous.CommentID, p.Owner, p.Repo, p.Number),
		})

	case rep.OnlyUpdate:
		// Nothing changed and there is no previous report; never create
		// a comment whose whole content would be "no changes".
		res.Actions = append(res.Actions, Action{
			Type:        ActionSkipped,
			Description: "no changes and no previous report comment",
		})

	default:
		id, err := p.Comments.CreateIssueComment(ctx, p.Owner, p.Repo, p.Number, rep.Body)
		if err != nil {
			res.Err = err
			return res, nil
		}
		res.Actions = append(res.Actions, Action{
			Type:        ActionCreated,
			Description: fmt.Sprintf("created report comment %d on %s/%s#%d", id, p.Owner, p.Repo, p.Number),
		})
	}

	return res, nil
}
