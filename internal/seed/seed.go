package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/catalog/domain"
	companydomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/company/domain"
	contractdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/contract/domain"
	fxratedomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/fxrate/domain"
	requisitiondomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/requisition/domain"
	pkgdb "github.com/steve-waters-outstaffer/outataffer-platform-reporting/pkg/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnsureDemoData loads a small deterministic warehouse so a fresh install
// produces non-empty reports. It is a no-op when any companies already exist.
func EnsureDemoData(db *gorm.DB, now time.Time) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	now = now.UTC()

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&companydomain.Company{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		if err := tx.Create(demoPlans()).Error; err != nil {
			return fmt.Errorf("seed plans: %w", err)
		}
		if err := tx.Create(demoAddons()).Error; err != nil {
			return fmt.Errorf("seed addons: %w", err)
		}
		if err := tx.Create(demoFXRates(now)).Error; err != nil {
			return fmt.Errorf("seed fx rates: %w", err)
		}
		if err := tx.Create(demoCompanies(now)).Error; err != nil {
			return fmt.Errorf("seed companies: %w", err)
		}
		if err := tx.Create(demoContracts(now)).Error; err != nil {
			return fmt.Errorf("seed contracts: %w", err)
		}
		reqs, positions := demoRequisitions(now)
		if err := tx.Create(reqs).Error; err != nil {
			return fmt.Errorf("seed requisitions: %w", err)
		}
		if err := tx.Create(positions).Error; err != nil {
			return fmt.Errorf("seed positions: %w", err)
		}
		return nil
	})
	// Two instances booting at once can both pass the empty check; the
	// loser's duplicate insert means another instance already seeded.
	if pkgdb.IsDuplicateKeyErr(err) {
		return nil
	}
	return err
}

func demoPlans() []catalogdomain.Plan {
	return []catalogdomain.Plan{
		{ID: "plan_everyday", Code: "PLAN_EVERYDAY", Name: "Everyday", MonthlyPrice: 550, Currency: "AUD"},
		{ID: "plan_power", Code: "PLAN_POWER", Name: "Power User", MonthlyPrice: 720, Currency: "AUD"},
		{ID: "plan_desdev", Code: "PLAN_DES_DEV", Name: "Designer / Developer", MonthlyPrice: 890, Currency: "AUD"},
	}
}

func demoAddons() []catalogdomain.Addon {
	return []catalogdomain.Addon{
		{ID: "addon_win_laptop", Key: "WIN_LAPTOP_14", Name: "ThinkPad 14", Category: catalogdomain.AddonCategoryHardware, GroupName: "Laptop", MonthlyPrice: 65, Currency: "AUD"},
		{ID: "addon_mac_laptop", Key: "APPLE_MBP_14", Name: "MacBook Pro 14", Category: catalogdomain.AddonCategoryHardware, GroupName: "Laptop", MonthlyPrice: 110, Currency: "AUD"},
		{ID: "addon_monitor", Key: "MONITOR_27", Name: "27in Monitor", Category: catalogdomain.AddonCategoryHardware, GroupName: "Monitor", MonthlyPrice: 25, Currency: "AUD"},
		{ID: "addon_o365", Key: "SW_O365", Name: "Microsoft 365", Category: catalogdomain.AddonCategorySoftware, MonthlyPrice: 18, Currency: "AUD"},
		{ID: "addon_gym", Key: "MB_GYM", Name: "Gym Membership", Category: catalogdomain.AddonCategoryMembership, MonthlyPrice: 40, Currency: "AUD"},
		{ID: "addon_health_plus", Key: "HI_PLUS", Name: "Health Plus Cover", Category: catalogdomain.AddonCategoryHealthInsurance, MonthlyPrice: 95, Currency: "AUD"},
	}
}

func demoFXRates(now time.Time) []fxratedomain.FXRate {
	date := now.AddDate(0, 0, -1)
	return []fxratedomain.FXRate{
		{BaseCurrency: "USD", TargetCurrency: "AUD", Rate: 1.52, FXDate: date},
		{BaseCurrency: "PHP", TargetCurrency: "AUD", Rate: 0.027, FXDate: date},
		{BaseCurrency: "VND", TargetCurrency: "AUD", Rate: 0.000061, FXDate: date},
	}
}

func demoCompanies(now time.Time) []companydomain.Company {
	return []companydomain.Company{
		{ID: "co_acme", Name: "Acme Robotics", Industry: "Manufacturing", Size: "51-200", CountryCode: "AU", CreatedAt: now.AddDate(0, -8, 0)},
		{ID: "co_bluegum", Name: "Bluegum Analytics", Industry: "Software", Size: "11-50", CountryCode: "AU", CreatedAt: now.AddDate(0, -5, 0)},
		{ID: "co_cascade", Name: "Cascade Health", Industry: "Healthcare", Size: "201-500", CountryCode: "US", CreatedAt: now.AddDate(0, 0, -12)},
	}
}

func demoContracts(now time.Time) []contractdomain.Contract {
	started := now.AddDate(0, -6, 0)
	recent := now.AddDate(0, 0, -10)
	future := now.AddDate(0, 0, 20)
	return []contractdomain.Contract{
		{
			ID: "ct_001", CompanyID: "co_acme", Status: contractdomain.StatusActive,
			StartDate: &started, CountryCode: "PH", Currency: "PHP",
			EORFee: 28000, DeviceFee: 3500, HealthFee: 5200,
			PlanID: "plan_everyday", Addons: datatypes.JSONSlice[string]{"WIN_LAPTOP_14", "SW_O365"},
			HealthPlan: "STANDARD", DependentsCount: 2, DeviceType: "WIN_LAPTOP",
			CreatedAt: started.AddDate(0, 0, -14), UpdatedAt: recent,
		},
		{
			ID: "ct_002", CompanyID: "co_acme", Status: contractdomain.StatusOffboarding,
			StartDate: &started, CountryCode: "VN", Currency: "VND",
			EORFee: 9800000, HardwareFee: 610000,
			PlanID: "plan_power", Addons: datatypes.JSONSlice[string]{"APPLE_MBP_14", "MONITOR_27"},
			HealthPlan: contractdomain.HealthPlanNone, DeviceType: "MAC_LAPTOP",
			CreatedAt: started.AddDate(0, 0, -30), UpdatedAt: recent,
		},
		{
			ID: "ct_003", CompanyID: "co_bluegum", Status: contractdomain.StatusActive,
			StartDate: &recent, CountryCode: "AU", Currency: "AUD",
			EORFee: 790, SoftwareFee: 36, HealthFee: 95,
			PlacementFee: 4200,
			PlanID:       "plan_desdev",
			Addons:       datatypes.JSONSlice[string]{"APPLE_MBP_14", "HI_PLUS"},
			HealthPlan: "PREMIUM", DependentsCount: 1, DeviceType: "MAC_LAPTOP",
			CreatedAt: recent, UpdatedAt: recent,
		},
		{
			ID: "ct_004", CompanyID: "co_cascade", Status: contractdomain.StatusApproved,
			StartDate: &future, CountryCode: "US", Currency: "USD",
			EORFee: 620, PlanID: "plan_everyday",
			HealthPlan: contractdomain.HealthPlanNone,
			CreatedAt:  recent, UpdatedAt: recent,
		},
		{
			ID: "ct_005", CompanyID: "co_bluegum", Status: contractdomain.StatusEnded,
			StartDate: &started, CountryCode: "AU", Currency: "AUD",
			EORFee: 700, PlanID: "plan_everyday",
			HealthPlan: contractdomain.HealthPlanNone, DeviceType: "WIN_LAPTOP",
			CreatedAt: started, UpdatedAt: recent,
		},
	}
}

func demoRequisitions(now time.Time) ([]requisitiondomain.Requisition, []requisitiondomain.Position) {
	recent := now.AddDate(0, 0, -6)
	reqs := []requisitiondomain.Requisition{
		{ID: "rq_001", CompanyID: "co_acme", CountryCode: "PH", Status: requisitiondomain.StatusApproved, CreatedAt: recent, UpdatedAt: recent},
		{ID: "rq_002", CompanyID: "co_cascade", CountryCode: "US", Status: requisitiondomain.StatusRejected, CreatedAt: recent, UpdatedAt: recent},
	}
	positions := []requisitiondomain.Position{
		{
			ID: "pos_001", RequisitionID: "rq_001", CountryCode: "PH", Status: requisitiondomain.PositionOpen,
			PlanID:            "plan_everyday",
			HardwareKeys:      datatypes.JSONSlice[string]{"WIN_LAPTOP_14"},
			SoftwareKeys:      datatypes.JSONSlice[string]{"SW_O365"},
			RecruitmentFeePct: 12, CreatedAt: recent,
		},
		{
			ID: "pos_002", RequisitionID: "rq_001", CountryCode: "PH", Status: requisitiondomain.PositionOpen,
			PlanID: "plan_power", RecruitmentFeePct: 10, CreatedAt: recent,
		},
	}
	return reqs, positions
}
