package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/store"
)

// SeedUser is a default account with its plain text password.
type SeedUser struct {
	domain.User
	Password string
}

var DefaultUsers = []SeedUser{
	{User: domain.User{ID: "1", Username: "admin", Role: domain.RoleAdmin, Name: "Yönetici", JobTitle: "Genel Müdür", AnnualLeaveDays: 14}, Password: "admin123"},
	{User: domain.User{ID: "2", Username: "ayse", Role: domain.RoleUser, Name: "Ayşe Yılmaz", JobTitle: "Satış Temsilcisi", AnnualLeaveDays: 14, VehicleModel: "Fiat Egea", VehicleInitialKm: 42000}, Password: "ayse123"},
	{User: domain.User{ID: "3", Username: "mehmet", Role: domain.RoleUser, Name: "Mehmet Demir", JobTitle: "Saha Satış", AnnualLeaveDays: 14, VehicleModel: "Renault Clio", VehicleInitialKm: 18500}, Password: "mehmet123"},
}

var defaultCustomers = []domain.Customer{
	{Name: "Anadolu Makina A.Ş.", Email: "info@anadolumakina.com.tr", CurrentCode: "120.01.001", City: "Konya", Phone1: "0332 123 45 67", Status: domain.CustomerActive},
	{Name: "Ege Hidrolik Ltd. Şti.", Email: "satis@egehidrolik.com", CurrentCode: "120.01.002", City: "İzmir", Phone1: "0232 987 65 43", Status: domain.CustomerActive},
	{Name: "Marmara Kalıp San.", Email: "", CurrentCode: "120.01.003", City: "Bursa", Phone1: "0224 555 12 12", Status: domain.CustomerActive},
	{Name: "Karadeniz Metal", Email: "iletisim@karadenizmetal.com", CurrentCode: "120.01.004", City: "Samsun", Status: domain.CustomerPassive},
	{Name: "Başkent Otomasyon", Email: "info@baskentotomasyon.com", CurrentCode: "120.01.005", City: "Ankara", Phone1: "0312 444 00 11", Status: domain.CustomerActive},
}

func defaultERPSettings() domain.ERPSettings {
	return domain.ERPSettings{
		ID:           domain.ERPSettingsID,
		Server:       "192.168.1.100",
		DatabasePath: `C:\WOLVOX8\WOLVOX.FDB`,
		Username:     "SYSDBA",
	}
}

// Seed always refreshes the default users; customers and ERP settings are
// written only into an empty database.
func Seed(ctx context.Context, s *store.Store, log *zap.Logger) error {
	users := make([]domain.User, 0, len(DefaultUsers))
	for _, su := range DefaultUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", su.Username, err)
		}
		u := su.User
		u.PasswordHash = string(hash)
		users = append(users, u)
	}

	return s.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Users.BulkPut(ctx, users); err != nil {
			return err
		}

		count, err := tx.Customers.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			log.Info("seed: database already initialized", zap.Int64("customers", count))
			return nil
		}

		log.Info("seed: empty database, adding initial customers")
		now := time.Now().UTC()
		customers := make([]domain.Customer, len(defaultCustomers))
		for i, c := range defaultCustomers {
			c.ID = fmt.Sprint(i + 1)
			c.Stage = domain.StagePotential
			c.CreatedAt = now.Add(-time.Duration(i) * 24 * time.Hour)
			customers[i] = c
		}
		if _, err := tx.Customers.BulkAdd(ctx, customers); err != nil {
			return err
		}

		settings := defaultERPSettings()
		return tx.ERPSettings.Put(ctx, &settings)
	})
}
