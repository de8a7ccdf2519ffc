package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nabil-hossain/chairtime/libs/config"
	"github.com/nabil-hossain/chairtime/services/booking-service/internal/availability"
)

// Barber is a chair in the shop. The roster is deployment configuration, not
// a database row: hiring is a redeploy.
type Barber struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	SlotIntervalMinutes int    `json:"slot_interval_minutes"`
}

// Service is a priced catalog entry. Price is a decimal string; appointments
// snapshot it at booking time so later price changes leave history intact.
type Service struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Catalog is everything the booking flow needs to know about the shop.
// Loaded once at startup; invalid configuration refuses to boot.
type Catalog struct {
	Barbers  []Barber
	Services []Service
	Hours    availability.Hours
	Location *time.Location

	barbersByID  map[string]Barber
	servicesByID map[string]Service
}

const (
	defaultBarbers = `[
		{"id": "nabil", "name": "Nabil", "slot_interval_minutes": 30},
		{"id": "arif", "name": "Arif", "slot_interval_minutes": 30}
	]`
	defaultServices = `[
		{"id": "haircut", "name": "Haircut", "price": "25.00"},
		{"id": "beard-trim", "name": "Beard Trim", "price": "15.00"},
		{"id": "haircut-beard", "name": "Haircut + Beard", "price": "35.00"},
		{"id": "kids-cut", "name": "Kids Cut", "price": "18.00"}
	]`
)

// Load reads the shop catalog from BARBERS, SERVICES, OPEN_TIME, CLOSE_TIME
// and SHOP_TIMEZONE.
func Load() (*Catalog, error) {
	var barbers []Barber
	if err := json.Unmarshal([]byte(config.String("BARBERS", defaultBarbers)), &barbers); err != nil {
		return nil, fmt.Errorf("BARBERS is not valid JSON: %w", err)
	}
	if len(barbers) == 0 {
		return nil, fmt.Errorf("BARBERS must list at least one barber")
	}

	var services []Service
	if err := json.Unmarshal([]byte(config.String("SERVICES", defaultServices)), &services); err != nil {
		return nil, fmt.Errorf("SERVICES is not valid JSON: %w", err)
	}
	if len(services) == 0 {
		return nil, fmt.Errorf("SERVICES must list at least one service")
	}

	open, err := availability.ParseTimeOfDay(config.String("OPEN_TIME", "10:00"))
	if err != nil {
		return nil, fmt.Errorf("OPEN_TIME: %w", err)
	}
	close, err := availability.ParseTimeOfDay(config.String("CLOSE_TIME", "20:00"))
	if err != nil {
		return nil, fmt.Errorf("CLOSE_TIME: %w", err)
	}
	hours, err := availability.NewHours(open, close)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(config.String("SHOP_TIMEZONE", "America/New_York"))
	if err != nil {
		return nil, fmt.Errorf("SHOP_TIMEZONE: %w", err)
	}

	c := &Catalog{
		Barbers:      barbers,
		Services:     services,
		Hours:        hours,
		Location:     loc,
		barbersByID:  make(map[string]Barber, len(barbers)),
		servicesByID: make(map[string]Service, len(services)),
	}

	for _, b := range barbers {
		if strings.TrimSpace(b.ID) == "" || strings.TrimSpace(b.Name) == "" {
			return nil, fmt.Errorf("barber entries need id and name: %+v", b)
		}
		if b.SlotIntervalMinutes <= 0 {
			return nil, fmt.Errorf("barber %s: slot_interval_minutes must be positive, got %d", b.ID, b.SlotIntervalMinutes)
		}
		if _, dup := c.barbersByID[b.ID]; dup {
			return nil, fmt.Errorf("duplicate barber id %s", b.ID)
		}
		c.barbersByID[b.ID] = b
	}

	for _, s := range services {
		if strings.TrimSpace(s.ID) == "" || strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("service entries need id and name: %+v", s)
		}
		if _, err := strconv.ParseFloat(s.Price, 64); err != nil {
			return nil, fmt.Errorf("service %s: price %q is not a decimal", s.ID, s.Price)
		}
		if _, dup := c.servicesByID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate service id %s", s.ID)
		}
		c.servicesByID[s.ID] = s
	}

	return c, nil
}

func (c *Catalog) Barber(id string) (Barber, bool) {
	b, ok := c.barbersByID[id]
	return b, ok
}

func (c *Catalog) Service(id string) (Service, bool) {
	s, ok := c.servicesByID[id]
	return s, ok
}

// Now returns the current instant in the shop timezone. The one place the
// clock enters the booking flow.
func (c *Catalog) Now() time.Time {
	return time.Now().In(c.Location)
}
