package memory

import (
	"time"

	"cafeledger/domain/catalog"
	"cafeledger/domain/loyalty"
	"cafeledger/domain/shared"
)

// SeedDemoData loads a small café catalog into the in-memory stores so the
// service is usable out of the box in mock mode.
func SeedDemoData(
	products *ProductRepository,
	extras *ExtraRepository,
	links *ProductExtraRepository,
	rewards *RewardRepository,
) {
	now := time.Now()
	intp := func(v int) *int { return &v }
	tierp := func(t loyalty.Tier) *loyalty.Tier { return &t }

	products.Seed([]catalog.ProductDTO{
		{
			ID: 1, Name: "Espresso", Description: "Single shot", Category: "coffee",
			Price: shared.NewMoney(250, shared.EUR), Available: true, AlaCarte: true,
			StockQuantity: nil, LowStockThreshold: 10, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: 2, Name: "Cappuccino", Description: "Espresso with steamed milk foam", Category: "coffee",
			Price: shared.NewMoney(450, shared.EUR), Available: true, AlaCarte: true,
			StockQuantity: nil, LowStockThreshold: 10, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: 3, Name: "Croissant", Description: "Butter croissant", Category: "bakery",
			Price: shared.NewMoney(320, shared.EUR), Available: true, AlaCarte: true,
			StockQuantity: intp(24), LowStockThreshold: 5, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: 4, Name: "Cheesecake", Description: "Slice of the day", Category: "bakery",
			Price: shared.NewMoney(480, shared.EUR), Available: true, AlaCarte: true,
			StockQuantity: intp(8), LowStockThreshold: 3, CreatedAt: now, UpdatedAt: now,
		},
	})

	extras.Seed([]catalog.ExtraDTO{
		{
			ID: 1, Name: "Extra shot", Description: "One more espresso shot",
			Price: shared.NewMoney(50, shared.EUR), Available: true,
			StockQuantity: 200, LowStockThreshold: 20, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: 2, Name: "Oat milk", Description: "Swap to oat milk",
			Price: shared.NewMoney(40, shared.EUR), Available: true,
			StockQuantity: 60, LowStockThreshold: 10, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: 3, Name: "Vanilla syrup", Description: "Pump of vanilla",
			Price: shared.NewMoney(30, shared.EUR), Available: true,
			StockQuantity: 40, LowStockThreshold: 8, CreatedAt: now, UpdatedAt: now,
		},
	})

	links.Seed(1, 1, 3) // espresso: extra shots
	links.Seed(2, 1, 3) // cappuccino: extra shots
	links.Seed(2, 2, 1) // cappuccino: oat milk
	links.Seed(2, 3, 2) // cappuccino: vanilla syrup

	rewards.Seed([]loyalty.RewardDTO{
		{
			ID: 1, Name: "Free espresso", Description: "One espresso on the house",
			PointsCost: 40, RequiredTier: nil, Active: true,
			StockQuantity: nil, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: 2, Name: "Free cappuccino", Description: "One cappuccino on the house",
			PointsCost: 70, RequiredTier: nil, Active: true,
			StockQuantity: nil, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: 3, Name: "Branded mug", Description: "Limited edition ceramic mug",
			PointsCost: 250, RequiredTier: tierp(loyalty.TierSilver), Active: true,
			StockQuantity: intp(12), CreatedAt: now, UpdatedAt: now,
		},
	})
}
