package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nabil-hossain/chairtime/services/auth-service/internal/storage"
)

type adminAccount struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	BarberID string `json:"barber_id"`
}

// BootstrapAdmins creates the barber admin accounts from the ADMIN_ACCOUNTS
// env JSON on first boot. Existing accounts are left untouched, so password
// changes made through the app survive restarts.
func BootstrapAdmins(ctx context.Context, raw string, users *storage.UserRepository, logger *slog.Logger) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		logger.Warn("ADMIN_ACCOUNTS not set; no admin accounts will exist")
		return nil
	}

	var accounts []adminAccount
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		return fmt.Errorf("ADMIN_ACCOUNTS is not valid JSON: %w", err)
	}

	for _, acct := range accounts {
		acct.Email = strings.TrimSpace(acct.Email)
		acct.BarberID = strings.TrimSpace(acct.BarberID)
		if acct.Email == "" || acct.Password == "" || acct.BarberID == "" {
			return fmt.Errorf("admin account entries need email, password and barber_id")
		}

		if _, err := users.GetByEmail(ctx, acct.Email); err == nil {
			continue
		} else if !storage.IsNotFound(err) {
			return err
		}

		hash, err := hashPassword(acct.Password)
		if err != nil {
			return err
		}
		if err := users.Create(ctx, storage.User{
			ID:           uuid.NewString(),
			BarberID:     acct.BarberID,
			Email:        acct.Email,
			PasswordHash: hash,
			Role:         "admin",
		}); err != nil {
			return err
		}
		logger.Info("admin account created", "email", acct.Email, "barber_id", acct.BarberID)
	}
	return nil
}
