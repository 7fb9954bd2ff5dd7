package activity

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hitoshi/activityhub/internal/model"
)

// TextSanitizer はシードファイルの自由記述フィールドを無害化するインターフェース。
type TextSanitizer interface {
	Sanitize(s string) string
}

// seedFile はYAMLシードファイルのトップレベル構造。
type seedFile struct {
	Activities []seedActivity `yaml:"activities"`
}

type seedActivity struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Schedule        string   `yaml:"schedule"`
	MaxParticipants int      `yaml:"max_participants"`
	Participants    []string `yaml:"participants"`
}

// DefaultSeed はMergington High Schoolの既定の9活動を返す。
// 呼び出しごとに新しいスライスを返す。
func DefaultSeed() []model.Activity {
	return []model.Activity{
		{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		{
			Name:            "Programming Class",
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		{
			Name:            "Gym Class",
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
		{
			Name:            "Basketball",
			Description:     "Team sport focusing on basketball skills and competition",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 15,
			Participants:    []string{"james@mergington.edu"},
		},
		{
			Name:            "Soccer",
			Description:     "Outdoor soccer league for all skill levels",
			Schedule:        "Mondays and Wednesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 22,
			Participants:    []string{"alex@mergington.edu", "jordan@mergington.edu"},
		},
		{
			Name:            "Debate Club",
			Description:     "Develop public speaking and critical thinking skills",
			Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 16,
			Participants:    []string{"lucas@mergington.edu"},
		},
		{
			Name:            "Science Club",
			Description:     "Explore scientific concepts through experiments and projects",
			Schedule:        "Wednesdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 18,
			Participants:    []string{"maya@mergington.edu", "rachel@mergington.edu"},
		},
		{
			Name:            "Art Class",
			Description:     "Learn painting, drawing, and other visual arts techniques",
			Schedule:        "Mondays, 3:30 PM - 5:00 PM",
			MaxParticipants: 20,
			Participants:    []string{"isabella@mergington.edu"},
		},
		{
			Name:            "Music Band",
			Description:     "Play in the school band and perform at events",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 25,
			Participants:    []string{"noah@mergington.edu", "charlotte@mergington.edu"},
		},
	}
}

// LoadSeedFile はYAMLシードファイルを読み込み、検証済みの活動一覧を返す。
// sanitizerがnilでない場合、descriptionとscheduleをサニタイズする。
func LoadSeedFile(path string, sanitizer TextSanitizer) ([]model.Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data, sanitizer)
}

// ParseSeed はYAMLのシード定義を解析して検証する。
// 検証内容: 活動名が空でないこと、活動名が一意であること、
// max_participantsが正であること、同一活動内で参加者が重複しないこと。
func ParseSeed(data []byte, sanitizer TextSanitizer) ([]model.Activity, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(f.Activities) == 0 {
		return nil, fmt.Errorf("seed file defines no activities")
	}

	seen := make(map[string]struct{}, len(f.Activities))
	activities := make([]model.Activity, 0, len(f.Activities))

	for i, sa := range f.Activities {
		if strings.TrimSpace(sa.Name) == "" {
			return nil, fmt.Errorf("activity #%d: name is required", i+1)
		}
		if _, dup := seen[sa.Name]; dup {
			return nil, fmt.Errorf("activity %q: duplicate name", sa.Name)
		}
		seen[sa.Name] = struct{}{}

		if sa.MaxParticipants <= 0 {
			return nil, fmt.Errorf("activity %q: max_participants must be positive, got %d", sa.Name, sa.MaxParticipants)
		}

		participants := make([]string, 0, len(sa.Participants))
		members := make(map[string]struct{}, len(sa.Participants))
		for _, p := range sa.Participants {
			if _, dup := members[p]; dup {
				return nil, fmt.Errorf("activity %q: duplicate participant %q", sa.Name, p)
			}
			members[p] = struct{}{}
			participants = append(participants, p)
		}

		description, schedule := sa.Description, sa.Schedule
		if sanitizer != nil {
			description = sanitizer.Sanitize(description)
			schedule = sanitizer.Sanitize(schedule)
		}

		activities = append(activities, model.Activity{
			Name:            sa.Name,
			Description:     description,
			Schedule:        schedule,
			MaxParticipants: sa.MaxParticipants,
			Participants:    participants,
		})
	}

	return activities, nil
}
