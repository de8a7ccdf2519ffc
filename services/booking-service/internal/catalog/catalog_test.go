package catalog

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load with defaults failed: %v", err)
	}
	if len(c.Barbers) != 2 {
		t.Fatalf("expected 2 default barbers, got %d", len(c.Barbers))
	}
	if len(c.Services) == 0 {
		t.Fatal("expected default services")
	}
	if c.Hours.Open.String() != "10:00" || c.Hours.Close.String() != "20:00" {
		t.Fatalf("unexpected default hours %s-%s", c.Hours.Open, c.Hours.Close)
	}
	if _, ok := c.Barber("nabil"); !ok {
		t.Fatal("default barber lookup failed")
	}
	if _, ok := c.Service("haircut"); !ok {
		t.Fatal("default service lookup failed")
	}
	if _, ok := c.Barber("nobody"); ok {
		t.Fatal("unknown barber should not resolve")
	}
}

func TestLoadRejectsBadBarbers(t *testing.T) {
	cases := map[string]string{
		"not json":      `{`,
		"empty list":    `[]`,
		"zero interval": `[{"id": "x", "name": "X", "slot_interval_minutes": 0}]`,
		"missing name":  `[{"id": "x", "slot_interval_minutes": 30}]`,
		"duplicate id":  `[{"id": "x", "name": "X", "slot_interval_minutes": 30}, {"id": "x", "name": "Y", "slot_interval_minutes": 15}]`,
	}
	for name, v := range cases {
		t.Setenv("BARBERS", v)
		if _, err := Load(); err == nil {
			t.Errorf("%s: expected Load to fail", name)
		}
	}
}

func TestLoadRejectsBadServices(t *testing.T) {
	cases := map[string]string{
		"bad price":    `[{"id": "cut", "name": "Cut", "price": "cheap"}]`,
		"empty list":   `[]`,
		"duplicate id": `[{"id": "cut", "name": "Cut", "price": "10"}, {"id": "cut", "name": "Trim", "price": "5"}]`,
	}
	for name, v := range cases {
		t.Setenv("SERVICES", v)
		if _, err := Load(); err == nil {
			t.Errorf("%s: expected Load to fail", name)
		}
	}
}

func TestLoadRejectsBadHours(t *testing.T) {
	t.Setenv("OPEN_TIME", "20:00")
	t.Setenv("CLOSE_TIME", "10:00")
	if _, err := Load(); err == nil {
		t.Fatal("expected Load to fail for inverted hours")
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("SHOP_TIMEZONE", "Mars/Olympus")
	if _, err := Load(); err == nil {
		t.Fatal("expected Load to fail for unknown timezone")
	}
}
