package pricing

import "testing"

func TestCanAddClients(t *testing.T) {
	tests := []struct {
		count int
		limit int
		want  bool
	}{
		{count: 4, limit: 5, want: true},
		{count: 5, limit: 5, want: false},
		{count: 6, limit: 5, want: false},
		{count: 0, limit: TrialClientLimit, want: true},
		{count: 198, limit: 199, want: true},
		{count: 199, limit: 199, want: false},
		{count: 0, limit: UnlimitedClientLimit, want: true},
		{count: 5000000, limit: UnlimitedClientLimit, want: true},
	}

	for _, tt := range tests {
		if got := CanAddClients(tt.count, tt.limit); got != tt.want {
			t.Fatalf("CanAddClients(%d, %d) = %v, want %v", tt.count, tt.limit, got, tt.want)
		}
	}
}
