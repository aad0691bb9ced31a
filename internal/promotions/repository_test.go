package promotions

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/servease/servease-backend/pkg/db/models"
	"github.com/servease/servease-backend/pkg/enums"
)

func TestLoadRegistrySkipsInactive(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	err := conn.Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		active := &models.Promotion{
			ID:       uuid.New(),
			Code:     "WELCOME10",
			Kind:     enums.PromotionKindPercentage,
			Value:    decimal.NewFromFloat(0.10),
			IsActive: true,
		}
		retired := &models.Promotion{
			ID:       uuid.New(),
			Code:     "RETIRED",
			Kind:     enums.PromotionKindFixed,
			Value:    decimal.NewFromInt(500),
			IsActive: false,
		}
		if _, err := repo.Create(ctx, active); err != nil {
			t.Fatalf("create active: %v", err)
		}
		if _, err := repo.Create(ctx, retired); err != nil {
			t.Fatalf("create retired: %v", err)
		}

		registry, err := repo.LoadRegistry(ctx)
		if err != nil {
			t.Fatalf("load registry: %v", err)
		}
		if _, ok := registry.Lookup("welcome10"); !ok {
			t.Fatal("expected active promotion in registry")
		}
		if _, ok := registry.Lookup("RETIRED"); ok {
			t.Fatal("inactive promotion must not load")
		}
		return gorm.ErrRecordNotFound
	})
	if err == nil {
		t.Fatal("expected rollback sentinel")
	}
}
