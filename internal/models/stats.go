package models

import "encoding/json"

type SubjectStat struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

type TopicStat struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Stats is the persisted progression aggregate, stored as the "quizStats"
// record. Level is cached for display but always recomputed from TotalXP
// after load and after every mutation.
type Stats struct {
	TotalSessions  int                     `json:"total_sessions"`
	TotalCorrect   int                     `json:"total_correct"`
	TotalIncorrect int                     `json:"total_incorrect"`
	TotalXP        float64                 `json:"total_xp"`
	Level          int                     `json:"level"`
	Subjects       map[Subject]SubjectStat `json:"subjects"`
	Topics         map[string]TopicStat    `json:"topics"`
	Credits        int                     `json:"credits"`
	Inventory      []string                `json:"inventory"`
	EquippedTheme  string                  `json:"equipped_theme"`
}

func DefaultStats() Stats {
	return Stats{
		Level: 1,
		Subjects: map[Subject]SubjectStat{
			SubjectMath:    {},
			SubjectEnglish: {},
		},
		Topics:        map[string]TopicStat{},
		Inventory:     []string{},
		EquippedTheme: "theme_default",
	}
}

// MergeStats decodes raw JSON over the defaults so records written by older
// schema versions keep working: missing fields keep their default value,
// unknown fields are dropped. Corrupt JSON yields the defaults unchanged.
func MergeStats(raw []byte) Stats {
	s := DefaultStats()
	if len(raw) == 0 {
		return s
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return DefaultStats()
	}
	if s.Subjects == nil {
		s.Subjects = DefaultStats().Subjects
	}
	if _, ok := s.Subjects[SubjectMath]; !ok {
		s.Subjects[SubjectMath] = SubjectStat{}
	}
	if _, ok := s.Subjects[SubjectEnglish]; !ok {
		s.Subjects[SubjectEnglish] = SubjectStat{}
	}
	if s.Topics == nil {
		s.Topics = map[string]TopicStat{}
	}
	if s.Inventory == nil {
		s.Inventory = []string{}
	}
	if s.EquippedTheme == "" {
		s.EquippedTheme = "theme_default"
	}
	if s.TotalXP < 0 {
		s.TotalXP = 0
	}
	return s
}

func (s *Stats) Owns(itemID string) bool {
	for _, id := range s.Inventory {
		if id == itemID {
			return true
		}
	}
	return false
}
