package services

import (
	"context"

	"github.com/google/uuid"

	"sata-backend/internal/models"
)

// ShopService handles the credit economy: catalog browsing, purchases, and
// equipping owned cosmetics.
type ShopService struct {
	state    StateStore
	notifier *Notifier
	locks    *UserLocks
}

func NewShopService(state StateStore, notifier *Notifier, locks *UserLocks) *ShopService {
	return &ShopService{state: state, notifier: notifier, locks: locks}
}

// Catalog lists every shop item with per-user ownership flags.
type CatalogItem struct {
	models.ShopItem
	Owned    bool `json:"owned"`
	Equipped bool `json:"equipped"`
}

func (s *ShopService) Catalog(ctx context.Context, userID uuid.UUID) ([]CatalogItem, int, error) {
	stats, err := s.state.LoadStats(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	items := make([]CatalogItem, 0, len(models.ShopItems))
	for _, item := range models.ShopItems {
		items = append(items, CatalogItem{
			ShopItem: item,
			Owned:    item.Price == 0 || stats.Owns(item.ID),
			Equipped: stats.EquippedTheme == item.ID,
		})
	}
	return items, stats.Credits, nil
}

// Buy deducts the price and adds the item to the inventory. Free items are
// owned implicitly and cannot be bought.
func (s *ShopService) Buy(ctx context.Context, userID uuid.UUID, itemID string) (models.Stats, error) {
	item, ok := models.ShopItemByID(itemID)
	if !ok {
		return models.Stats{}, &NotFoundError{Message: "Shop item not found"}
	}

	defer s.locks.Lock(userID)()

	stats, err := s.state.LoadStats(ctx, userID)
	if err != nil {
		return models.Stats{}, err
	}
	if item.Price == 0 || stats.Owns(item.ID) {
		return models.Stats{}, &ConflictError{Message: "Item already owned"}
	}
	if stats.Credits < item.Price {
		return models.Stats{}, &ConflictError{Message: "Not enough credits"}
	}

	stats.Credits -= item.Price
	stats.Inventory = append(stats.Inventory, item.ID)

	if err := s.state.SaveStats(ctx, userID, stats); err != nil {
		return models.Stats{}, err
	}
	s.notifier.Toast(ctx, userID, "Purchased "+item.Name+"!")
	return stats, nil
}

// Equip activates an owned theme.
func (s *ShopService) Equip(ctx context.Context, userID uuid.UUID, itemID string) (models.Stats, error) {
	item, ok := models.ShopItemByID(itemID)
	if !ok {
		return models.Stats{}, &NotFoundError{Message: "Shop item not found"}
	}

	defer s.locks.Lock(userID)()

	stats, err := s.state.LoadStats(ctx, userID)
	if err != nil {
		return models.Stats{}, err
	}
	if item.Price > 0 && !stats.Owns(item.ID) {
		return models.Stats{}, &ConflictError{Message: "Item not owned"}
	}

	stats.EquippedTheme = item.ID
	if err := s.state.SaveStats(ctx, userID, stats); err != nil {
		return models.Stats{}, err
	}
	return stats, nil
}
