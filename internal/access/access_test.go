package access

import (
	"reflect"
	"testing"
)

func TestNavItemsAdmin(t *testing.T) {
	got := NavItems("Admin")
	want := []string{NavDashboard, NavRoles, NavUsers, NavProducts, NavPOS, NavFeedbacks}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Admin nav: got %v, want %v", got, want)
	}
}

func TestNavItemsManager(t *testing.T) {
	got := NavItems("Manager")
	want := []string{NavDashboard, NavProducts, NavPOS, NavFeedbacks}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Manager nav: got %v, want %v", got, want)
	}
}

func TestNavItemsCashier(t *testing.T) {
	got := NavItems("Cashier")
	want := []string{NavDashboard, NavPOS}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Cashier nav: got %v, want %v", got, want)
	}
}

func TestNavItemsUnresolvedRole(t *testing.T) {
	for _, role := range []string{"", "Janitor", "admin"} {
		got := NavItems(role)
		want := []string{NavDashboard, NavPOS}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("nav for role %q: got %v, want %v", role, got, want)
		}
	}
}

func TestNavItemsReturnsCopy(t *testing.T) {
	first := NavItems("Cashier")
	first[0] = "mutated"
	second := NavItems("Cashier")
	if second[0] != NavDashboard {
		t.Fatalf("table mutated through returned slice: %v", second)
	}
}
