package model

// Activity は課外活動1件を表す。
// Nameはレジストリのキーを兼ねるため、JSONには含めない。
type Activity struct {
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// HasParticipant は指定メールアドレスが参加者に含まれるかを返す。
func (a *Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// IsFull は参加者数が定員に達しているかを返す。
func (a *Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// Clone は参加者スライスを含めたディープコピーを返す。
// 参加者が0件でもJSONでnullにならないよう空スライスを保持する。
func (a *Activity) Clone() Activity {
	participants := make([]string, len(a.Participants))
	copy(participants, a.Participants)
	return Activity{
		Name:            a.Name,
		Description:     a.Description,
		Schedule:        a.Schedule,
		MaxParticipants: a.MaxParticipants,
		Participants:    participants,
	}
}
