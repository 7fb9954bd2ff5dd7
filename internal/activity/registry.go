// Package activity は課外活動の登録簿（レジストリ）と、その上に乗るサービス層を提供する。
package activity

import (
	"sync"

	"github.com/hitoshi/activityhub/internal/model"
)

// Options はRegistryの挙動を切り替える設定。
type Options struct {
	// EnforceCapacity がtrueの場合、定員に達した活動への申込みをACTIVITY_FULLで拒否する。
	// 既定値（false）は定員を表示用メタデータとしてのみ扱う。
	EnforceCapacity bool
}

// Registry は活動名から活動レコードへのマッピングを保持するインメモリ登録簿。
// 全操作を単一のRWMutexで直列化する。
// 起動後に活動が追加・削除されることはなく、変更されるのは参加者リストのみ。
type Registry struct {
	mu         sync.RWMutex
	activities map[string]*model.Activity
	opts       Options
}

// NewRegistry はシードからRegistryを生成する。
// シードはコピーされるため、呼び出し元が後から変更しても影響しない。
// 同名の活動が複数ある場合は後勝ちとなる（重複検出はLoadSeedFileの責務）。
func NewRegistry(seed []model.Activity, opts Options) *Registry {
	activities := make(map[string]*model.Activity, len(seed))
	for i := range seed {
		a := seed[i].Clone()
		activities[a.Name] = &a
	}
	return &Registry{
		activities: activities,
		opts:       opts,
	}
}

// List は全活動のスナップショットを返す。
// 返り値は内部状態から切り離されたコピーであり、変更しても登録簿には反映されない。
func (r *Registry) List() map[string]model.Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[string]model.Activity, len(r.activities))
	for name, a := range r.activities {
		snapshot[name] = a.Clone()
	}
	return snapshot
}

// Get は指定名の活動のスナップショットを返す。存在しない場合はfalseを返す。
func (r *Registry) Get(name string) (model.Activity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.activities[name]
	if !ok {
		return model.Activity{}, false
	}
	return a.Clone(), true
}

// Len は登録されている活動数を返す。
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.activities)
}

// Enroll は参加者を活動の末尾に追加し、更新後のスナップショットを返す。
// チェック順序: 活動の存在 → 重複 → 定員（EnforceCapacity時のみ）。
// 失敗時は状態を変更しない。
func (r *Registry) Enroll(name, email string) (model.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return model.Activity{}, model.NewActivityNotFoundError()
	}
	if a.HasParticipant(email) {
		return model.Activity{}, model.NewAlreadySignedUpError(email)
	}
	if r.opts.EnforceCapacity && a.IsFull() {
		return model.Activity{}, model.NewActivityFullError(name)
	}

	a.Participants = append(a.Participants, email)
	return a.Clone(), nil
}

// Withdraw は参加者を活動から1件だけ取り除き、更新後のスナップショットを返す。
// 残りの参加者の順序は維持される。
func (r *Registry) Withdraw(name, email string) (model.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return model.Activity{}, model.NewActivityNotFoundError()
	}

	idx := -1
	for i, p := range a.Participants {
		if p == email {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Activity{}, model.NewNotRegisteredError(email)
	}

	a.Participants = append(a.Participants[:idx], a.Participants[idx+1:]...)
	return a.Clone(), nil
}
