package models

// ProgressView is the dashboard aggregate: stats, streak, and the derived
// rank/level framing the client renders the progress bar from.
type ProgressView struct {
	Stats          Stats      `json:"stats"`
	Streak         StreakData `json:"streak"`
	Rank           string     `json:"rank"`
	NextLevelXP    float64    `json:"next_level_xp"`
	CurrentLevelXP float64    `json:"current_level_xp"`
}

type SetLevelRequest struct {
	Level int `json:"level"`
}

type SetStreakRequest struct {
	Count int `json:"count"`
}

type BuyItemRequest struct {
	ItemID string `json:"item_id"`
}

type EquipItemRequest struct {
	ItemID string `json:"item_id"`
}
