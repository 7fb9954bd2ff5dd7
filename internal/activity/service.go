package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/activityhub/internal/metrics"
	"github.com/hitoshi/activityhub/internal/model"
)

// Service は活動登録のサービス層。
// Registryへの操作に確認メッセージの生成、メトリクス記録、ログ出力を付加する。
type Service struct {
	registry *Registry
	recorder metrics.RosterRecorder
	logger   *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderがnilの場合はメトリクスを記録しない。loggerがnilの場合はslog.Default()を使う。
func NewService(registry *Registry, recorder metrics.RosterRecorder, logger *slog.Logger) *Service {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		registry: registry,
		recorder: recorder,
		logger:   logger,
	}
	s.observeAll()
	return s
}

// ListActivities は全活動のスナップショットを返す。
func (s *Service) ListActivities(ctx context.Context) (map[string]model.Activity, error) {
	return s.registry.List(), nil
}

// SignUp は参加者を活動に登録し、確認メッセージを返す。
func (s *Service) SignUp(ctx context.Context, activityName, email string) (string, error) {
	a, err := s.registry.Enroll(activityName, email)
	if err != nil {
		s.recorder.RecordSignup(resultOf(err))
		return "", err
	}

	s.recorder.RecordSignup(metrics.ResultSuccess)
	s.recorder.ObserveRoster(a.Name, len(a.Participants), a.MaxParticipants)

	s.logger.InfoContext(ctx, "participant signed up",
		slog.String("activity", a.Name),
		slog.String("email", email),
		slog.Int("participants", len(a.Participants)),
	)

	return fmt.Sprintf("Signed up %s for %s", email, activityName), nil
}

// Unregister は参加者を活動から外し、確認メッセージを返す。
func (s *Service) Unregister(ctx context.Context, activityName, email string) (string, error) {
	a, err := s.registry.Withdraw(activityName, email)
	if err != nil {
		s.recorder.RecordUnregister(resultOf(err))
		return "", err
	}

	s.recorder.RecordUnregister(metrics.ResultSuccess)
	s.recorder.ObserveRoster(a.Name, len(a.Participants), a.MaxParticipants)

	s.logger.InfoContext(ctx, "participant unregistered",
		slog.String("activity", a.Name),
		slog.String("email", email),
		slog.Int("participants", len(a.Participants)),
	)

	return fmt.Sprintf("Unregistered %s from %s", email, activityName), nil
}

// observeAll は起動時点の全活動の参加者数と定員をメトリクスに反映する。
func (s *Service) observeAll() {
	for name, a := range s.registry.List() {
		s.recorder.ObserveRoster(name, len(a.Participants), a.MaxParticipants)
	}
}

// resultOf はエラーコードをメトリクスの結果ラベルに変換する。
func resultOf(err error) string {
	switch model.ErrorCode(err) {
	case model.ErrCodeActivityNotFound:
		return metrics.ResultNotFound
	case model.ErrCodeAlreadySignedUp:
		return metrics.ResultDuplicate
	case model.ErrCodeNotRegistered:
		return metrics.ResultNotRegistered
	case model.ErrCodeActivityFull:
		return metrics.ResultFull
	default:
		return metrics.ResultError
	}
}
