package models

type ShopItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Type        string `json:"type"` // "theme" | "powerup"
	Color       string `json:"color"`
}

var ShopItems = []ShopItem{
	{
		ID:          "theme_default",
		Name:        "Void Black",
		Description: "The standard elite interface.",
		Price:       0,
		Type:        "theme",
		Color:       "from-gray-900 to-black",
	},
	{
		ID:          "theme_neon",
		Name:        "Cyberpunk",
		Description: "High contrast neon aesthetics.",
		Price:       500,
		Type:        "theme",
		Color:       "from-indigo-600 to-purple-600",
	},
	{
		ID:          "theme_forest",
		Name:        "Zen Garden",
		Description: "Calming greens for deep focus.",
		Price:       300,
		Type:        "theme",
		Color:       "from-emerald-600 to-teal-700",
	},
	{
		ID:          "theme_crimson",
		Name:        "Red Shift",
		Description: "Aggressive red tones for speed.",
		Price:       400,
		Type:        "theme",
		Color:       "from-red-600 to-orange-700",
	},
}

func ShopItemByID(id string) (ShopItem, bool) {
	for _, item := range ShopItems {
		if item.ID == id {
			return item, true
		}
	}
	return ShopItem{}, false
}
