package interest

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/oggyb/muzz-interest/internal/app"
	svcErr "github.com/oggyb/muzz-interest/internal/errors"
	"github.com/oggyb/muzz-interest/internal/logger"
	"github.com/oggyb/muzz-interest/internal/model"
	"github.com/oggyb/muzz-interest/internal/swipe"
	"github.com/oggyb/muzz-interest/internal/utils/pagination"
)

// Service implements the InterestService gRPC API on top of the engine.
type Service struct {
	appCtx *app.AppContext
	engine *swipe.Engine
}

var _ InterestServer = (*Service)(nil)

// NewInterestService creates the service with dependencies from AppContext.
func NewInterestService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx, engine: appCtx.Engine}
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logger.FromContext(ctx, s.appCtx.Logger)
}

func (s *Service) Like(ctx context.Context, req *ActionRequest) (*ActionResponse, error) {
	return s.process(ctx, req, model.ActionLike)
}

func (s *Service) Dislike(ctx context.Context, req *ActionRequest) (*ActionResponse, error) {
	return s.process(ctx, req, model.ActionDislike)
}

func (s *Service) SuperLike(ctx context.Context, req *ActionRequest) (*ActionResponse, error) {
	return s.process(ctx, req, model.ActionSuperLike)
}

func (s *Service) Pass(ctx context.Context, req *ActionRequest) (*ActionResponse, error) {
	return s.process(ctx, req, model.ActionPass)
}

func (s *Service) process(ctx context.Context, req *ActionRequest, t model.ActionType) (*ActionResponse, error) {
	s.log(ctx).Debug("action called", "action", string(t), "actor", req.ActorUserID, "target", req.TargetUserID)

	actorID, targetID, err := parsePair(req.ActorUserID, req.TargetUserID)
	if err != nil {
		return nil, err
	}
	res, err := s.engine.Process(ctx, actorID, targetID, t, req.Metadata)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return toActionResponse(res), nil
}

// Block records a block; the target can never match the actor afterwards.
func (s *Service) Block(ctx context.Context, req *BlockRequest) (*ActionResponse, error) {
	actorID, targetID, err := parsePair(req.ActorUserID, req.TargetUserID)
	if err != nil {
		return nil, err
	}
	res, err := s.engine.Block(ctx, actorID, targetID, req.Reason)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return toActionResponse(res), nil
}

func (s *Service) Report(ctx context.Context, req *ReportRequest) (*ActionResponse, error) {
	actorID, targetID, err := parsePair(req.ActorUserID, req.TargetUserID)
	if err != nil {
		return nil, err
	}
	res, err := s.engine.Report(ctx, actorID, targetID, req.Reason, req.Description)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return toActionResponse(res), nil
}

func (s *Service) Undo(ctx context.Context, req *UndoRequest) (*UndoResponse, error) {
	actorID, err := parseID("actor_user_id", req.ActorUserID)
	if err != nil {
		return nil, err
	}
	res, err := s.engine.Undo(ctx, actorID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &UndoResponse{
		UndoneActionID: res.UndoneActionID,
		TargetUserID:   formatID(res.TargetID),
		ActionType:     string(res.ActionType),
	}, nil
}

// ListActionHistory returns the caller's own actions, newest first.
func (s *Service) ListActionHistory(ctx context.Context, req *ListRequest) (*ActionHistoryResponse, error) {
	userID, page, err := parseList(req)
	if err != nil {
		return nil, err
	}
	recs, err := s.engine.GetActionHistory(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &ActionHistoryResponse{Actions: make([]Action, 0, len(recs))}
	for _, r := range recs {
		a := Action{
			ID:                 r.ID,
			TargetUserID:       formatID(r.TargetID),
			ActionType:         string(r.Type),
			Metadata:           r.Metadata,
			CreatedAtUnixMilli: r.CreatedAt.UnixMilli(),
		}
		if at, ok := r.State.UndoneAt(); ok {
			a.Undone = true
			a.UndoneAtUnixMilli = at.UnixMilli()
		}
		resp.Actions = append(resp.Actions, a)
	}
	resp.NextPageToken = page.Next(len(recs))
	return resp, nil
}

// ListLikedYou returns the users who liked the recipient and whom the
// recipient has not acted on yet.
func (s *Service) ListLikedYou(ctx context.Context, req *ListRequest) (*LikedYouResponse, error) {
	userID, page, err := parseList(req)
	if err != nil {
		return nil, err
	}
	recs, err := s.engine.GetUsersWhoLikedMe(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		s.log(ctx).Error("GetUsersWhoLikedMe failed", "err", err)
		return nil, svcErr.Map(err)
	}

	resp := &LikedYouResponse{Likers: make([]Liker, 0, len(recs))}
	for _, r := range recs {
		resp.Likers = append(resp.Likers, Liker{
			ActorUserID:   formatID(r.ActorID),
			ActionType:    string(r.Type),
			UnixTimestamp: r.CreatedAt.UnixMilli(),
		})
	}
	resp.NextPageToken = page.Next(len(recs))

	s.log(ctx).Debug("ListLikedYou result", "liker_count", len(resp.Likers), "next_token", resp.NextPageToken)
	return resp, nil
}

// CountLikedYou returns the size of the recipient's liked-you list.
//
// Behavior:
//  1. Tries Redis first.
//  2. Falls back to the database.
//  3. On DB fetch, updates Redis with the configured TTL (1h default).
//
// The engine drops the cached value whenever an action touches the user.
func (s *Service) CountLikedYou(ctx context.Context, req *CountLikedYouRequest) (*CountLikedYouResponse, error) {
	recipientID, err := parseID("recipient_user_id", req.RecipientUserID)
	if err != nil {
		return nil, err
	}

	rc := s.appCtx.RedisCache
	if rc != nil {
		n, ok, err := rc.GetLikeCount(ctx, recipientID)
		if err != nil {
			s.log(ctx).Warn("like count cache read failed", "err", err)
		} else if ok {
			return &CountLikedYouResponse{Count: uint64(n), Cached: true}, nil
		}
	}

	count, err := s.engine.CountUsersWhoLikedMe(ctx, recipientID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if rc != nil {
		if err := rc.SetLikeCount(ctx, recipientID, count); err != nil {
			s.log(ctx).Warn("like count cache write failed", "err", err)
		}
	}
	return &CountLikedYouResponse{Count: uint64(count)}, nil
}

func (s *Service) ListMatches(ctx context.Context, req *ListRequest) (*MatchesResponse, error) {
	userID, page, err := parseList(req)
	if err != nil {
		return nil, err
	}
	matches, err := s.engine.GetMutualMatches(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &MatchesResponse{Matches: make([]Match, 0, len(matches))}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, Match{
			MatchID:            m.ID,
			PartnerUserID:      formatID(m.Partner(userID)),
			MatchedAtUnixMilli: m.MatchedAt.UnixMilli(),
		})
	}
	resp.NextPageToken = page.Next(len(matches))
	return resp, nil
}

// ListQueue returns the caller's next candidates, ranked.
func (s *Service) ListQueue(ctx context.Context, req *QueueRequest) (*QueueResponse, error) {
	userID, err := parseID("user_id", req.UserID)
	if err != nil {
		return nil, err
	}
	entries, err := s.engine.NextCandidates(ctx, userID, req.Limit)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &QueueResponse{Candidates: make([]Candidate, 0, len(entries))}
	for _, e := range entries {
		resp.Candidates = append(resp.Candidates, Candidate{
			CandidateUserID:    formatID(e.CandidateID),
			CompatibilityScore: e.CompatibilityScore,
			BoostScore:         e.BoostScore,
			FinalScore:         e.FinalScore(),
			Priority:           e.Priority,
		})
	}
	return resp, nil
}

// --- helpers ---

func toActionResponse(r swipe.Result) *ActionResponse {
	return &ActionResponse{ActionID: r.ActionID, IsMatch: r.IsMatch, MatchID: r.MatchID}
}

func parseID(field, v string) (uint64, error) {
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, svcErr.InvalidArgument(field + " must be a valid uint64")
	}
	return id, nil
}

func parsePair(actor, target string) (uint64, uint64, error) {
	actorID, err := parseID("actor_user_id", actor)
	if err != nil {
		return 0, 0, err
	}
	targetID, err := parseID("target_user_id", target)
	if err != nil {
		return 0, 0, err
	}
	return actorID, targetID, nil
}

func parseList(req *ListRequest) (uint64, pagination.Page, error) {
	userID, err := parseID("user_id", req.UserID)
	if err != nil {
		return 0, pagination.Page{}, err
	}
	offset := req.Offset
	if req.PageToken != "" {
		c, err := pagination.Decode(req.PageToken)
		if err != nil {
			return 0, pagination.Page{}, svcErr.InvalidArgument(err.Error())
		}
		offset = c.Offset
	}
	return userID, pagination.Normalize(req.Limit, offset), nil
}

func formatID(id uint64) string { return strconv.FormatUint(id, 10) }
