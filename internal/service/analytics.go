package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/demirdoven/fluxa-analytics-service/internal/assistant"
	"github.com/demirdoven/fluxa-analytics-service/internal/dto"
	"github.com/demirdoven/fluxa-analytics-service/internal/repository"
)

const defaultTopQuestionsLimit = 10

// TranscriptFetcher fetches conversation transcripts from the assistant
// service. Implemented by the assistant client.
type TranscriptFetcher interface {
	ListMessages(ctx context.Context, conversationID string) ([]assistant.Message, error)
}

// AnalyticsService computes read-only summary views over the append-only
// event store and externally fetched transcripts.
type AnalyticsService struct {
	repository  repository.EventRepository
	transcripts TranscriptFetcher
	log         *zap.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(repo repository.EventRepository, transcripts TranscriptFetcher, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		repository:  repo,
		transcripts: transcripts,
		log:         log,
	}
}

// Stats returns session/message totals for the window plus period-over-period
// deltas against the preceding window of equal length.
func (s *AnalyticsService) Stats(ctx context.Context, req *dto.StatsRequest) (*dto.StatsResponse, error) {
	from, to, err := window(req.From, req.To)
	if err != nil {
		return nil, err
	}

	current, err := s.repository.UsageStats(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get usage stats: %w", err)
	}

	span := to.Sub(from)
	previous, err := s.repository.UsageStats(ctx, from.Add(-span), from)
	if err != nil {
		return nil, fmt.Errorf("failed to get previous-period stats: %w", err)
	}

	return &dto.StatsResponse{
		From:          req.From,
		To:            req.To,
		Sessions:      current.Sessions,
		Messages:      current.Messages,
		SessionsDelta: trendDelta(current.Sessions, previous.Sessions),
		MessagesDelta: trendDelta(current.Messages, previous.Messages),
	}, nil
}

// TopQuestions ranks visitor questions by occurrence count descending. Ties
// break by first-seen order: the repository returns rows first-seen ascending
// and the sort here is stable, so repeated queries on unchanged data always
// produce the same ranking.
func (s *AnalyticsService) TopQuestions(ctx context.Context, req *dto.TopQuestionsRequest) (*dto.TopQuestionsResponse, error) {
	from, to, err := window(req.From, req.To)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultTopQuestionsLimit
	}

	counts, err := s.repository.QuestionCounts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get question counts: %w", err)
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if len(counts) > limit {
		counts = counts[:limit]
	}

	response := &dto.TopQuestionsResponse{
		From:      req.From,
		To:        req.To,
		Questions: make([]dto.QuestionCount, 0, len(counts)),
	}
	for _, qc := range counts {
		response.Questions = append(response.Questions, dto.QuestionCount{
			Question: qc.Text,
			Count:    qc.Count,
		})
	}

	return response, nil
}

// UnansweredQuestions lists visitor turns that received no assistant
// follow-up, from transcripts fetched per conversation. A conversation whose
// transcript cannot be fetched is skipped, not fatal.
func (s *AnalyticsService) UnansweredQuestions(ctx context.Context, req *dto.UnansweredQuestionsRequest) (*dto.UnansweredQuestionsResponse, error) {
	from, to, err := window(req.From, req.To)
	if err != nil {
		return nil, err
	}

	ids, err := s.repository.ConversationIDs(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation ids: %w", err)
	}

	response := &dto.UnansweredQuestionsResponse{
		From:      req.From,
		To:        req.To,
		Questions: []dto.UnansweredQuestion{},
	}

	for _, id := range ids {
		messages, err := s.transcripts.ListMessages(ctx, id)
		if err != nil {
			s.log.Warn("Failed to fetch conversation transcript",
				zap.String("conversation_id", id),
				zap.Error(err))
			continue
		}

		for _, q := range unansweredTurns(messages) {
			response.Questions = append(response.Questions, dto.UnansweredQuestion{
				ConversationID: id,
				Question:       q.Content,
				AskedAt:        q.CreatedAt,
			})
		}
	}

	return response, nil
}

// unansweredTurns returns the user messages that have no non-empty assistant
// reply before the next user message (or the end of the transcript).
func unansweredTurns(messages []assistant.Message) []assistant.Message {
	var unanswered []assistant.Message

	for i, msg := range messages {
		if msg.Role != "user" || msg.Content == "" {
			continue
		}

		answered := false
		for _, next := range messages[i+1:] {
			if next.Role == "user" {
				break
			}
			if next.Content != "" {
				answered = true
				break
			}
		}
		if !answered {
			unanswered = append(unanswered, msg)
		}
	}

	return unanswered
}

func window(from, to int64) (time.Time, time.Time, error) {
	if from > to {
		return time.Time{}, time.Time{}, fmt.Errorf("from timestamp must be less than or equal to to timestamp")
	}
	return time.Unix(from, 0).UTC(), time.Unix(to, 0).UTC(), nil
}

func trendDelta(current, previous uint64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (float64(current) - float64(previous)) / float64(previous) * 100
}
