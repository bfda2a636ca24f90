// Package seed provisions the complex layout and the default classification
// policy. Provisioning is idempotent: nothing is written when buildings
// already exist.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	complexdomain "github.com/happytownlabs/happytown/internal/complex/domain"
	complexrepository "github.com/happytownlabs/happytown/internal/complex/repository"
	posterdomain "github.com/happytownlabs/happytown/internal/poster/domain"
	posterrepository "github.com/happytownlabs/happytown/internal/poster/repository"
	rankdomain "github.com/happytownlabs/happytown/internal/rank/domain"
	rankrepository "github.com/happytownlabs/happytown/internal/rank/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type buildingSpec struct {
	number    string
	entrances int
}

// The Happy Town complex: four buildings, fixed entrance counts.
var complexLayout = []buildingSpec{
	{number: "71", entrances: 2},
	{number: "72", entrances: 3},
	{number: "73", entrances: 3},
	{number: "72А", entrances: 3},
}

// ProvisionComplex creates the building/entrance/apartment tree, the default
// rank rules and the default poster contents.
func ProvisionComplex(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		complexRepo := complexrepository.NewRepository(tx)

		count, err := complexRepo.CountBuildings(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		for _, spec := range complexLayout {
			if err := createBuilding(ctx, complexRepo, node, spec); err != nil {
				return fmt.Errorf("provision building %s: %w", spec.number, err)
			}
		}
		if err := createDefaultRanks(ctx, tx, node); err != nil {
			return err
		}
		return createDefaultPosterContents(ctx, tx, node)
	})
}

func createBuilding(ctx context.Context, repo complexdomain.Repository, node *snowflake.Node, spec buildingSpec) error {
	building := &complexdomain.Building{
		ID:             node.Generate(),
		BuildingNumber: spec.number,
		EntranceCount:  spec.entrances,
	}
	if err := repo.InsertBuilding(ctx, building); err != nil {
		return err
	}

	for entranceNumber := 1; entranceNumber <= spec.entrances; entranceNumber++ {
		entrance := &complexdomain.Entrance{
			ID:             node.Generate(),
			BuildingID:     building.ID,
			EntranceNumber: entranceNumber,
		}
		if err := repo.InsertEntrance(ctx, entrance); err != nil {
			return err
		}

		for door := 1; door <= complexdomain.DoorsPerEntrance; door++ {
			apartment := &complexdomain.Apartment{
				ID:          node.Generate(),
				EntranceID:  entrance.ID,
				DoorNumber:  door,
				FloorNumber: complexdomain.FloorForDoor(door),
			}
			if err := repo.InsertApartment(ctx, apartment); err != nil {
				return err
			}
		}
	}
	return nil
}

func createDefaultRanks(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	repo := rankrepository.NewRepository(tx)

	// Rules may have been created by hand before the first provisioning run.
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		name        string
		threshold   int64
		color       string
		description string
	}{
		{"Хувалз", 1000000, "#FF0000", "Төлбөр 1 сая төгрөгөөс илүү айлууд"},
		{"Өндөр эрсдэлтэй", 500000, "#FF8C00", "Төлбөр 500,000-999,999 төгрөг"},
		{"Дунд эрсдэлтэй", 100000, "#FFD700", "Төлбөр 100,000-499,999 төгрөг"},
		{"Normal", 0, "#008000", "Төлбөрийн үлдэгдэл 100,000 төгрөгөөс бага"},
	}

	for _, d := range defaults {
		description := d.description
		color := d.color
		rule := &rankdomain.RankConfiguration{
			ID:              node.Generate(),
			RankName:        d.name,
			ThresholdAmount: decimal.NewFromInt(d.threshold),
			Description:     &description,
			IsActive:        true,
			ColorCode:       &color,
		}
		if err := repo.Insert(ctx, rule); err != nil {
			return err
		}
	}
	return nil
}

func createDefaultPosterContents(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	repo := posterrepository.NewRepository(tx)

	defaults := []posterdomain.Content{
		{Kind: posterdomain.KindText, Content: "Төлбөрөө хугацаанд нь төлөөрэй!", DisplayOrder: 1},
		{Kind: posterdomain.KindText, Content: "Хөршөө бүү шамлуул — өрөө барагдуул.", DisplayOrder: 2},
	}
	for i := range defaults {
		defaults[i].ID = node.Generate()
		defaults[i].IsActive = true
		if err := repo.Insert(ctx, &defaults[i]); err != nil {
			return err
		}
	}
	return nil
}
