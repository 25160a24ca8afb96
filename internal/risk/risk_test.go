package risk

import "testing"

func TestScoreComponents(t *testing.T) {
	cases := []struct {
		name   string
		port   int
		banner string
		want   int
	}{
		{"plain web port", 8081, "", 0},
		{"sensitive only", 22, "", 40},
		{"sensitive plus weak word", 23, "login: root", 60},
		{"database stacks with sensitive", 6379, "", 65},
		{"version leak alone", 8081, "Apache version 2.4.62", 15},
		{"server header alone", 8081, "Server: nginx/1.24", 15},
		{"weak word alone", 8081, "Welcome!", 20},
		{"everything, capped", 3306, "default root account, version 5.7", 100},
		{"db plus version", 5432, "PostgreSQL version 16", 80},
		{"case insensitive banner", 8081, "UNAUTHORIZED ACCESS PROHIBITED", 20},
		{"weak word counted once", 8081, "admin test default", 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.port, tc.banner); got != tc.want {
				t.Errorf("Score(%d, %q) = %d, want %d", tc.port, tc.banner, got, tc.want)
			}
		})
	}
}

func TestScoreDeterministicAndBounded(t *testing.T) {
	ports := []int{0, 21, 22, 23, 25, 80, 443, 1433, 3306, 3389, 5432, 6379, 27017, 65535}
	banners := []string{"", "admin", "version", "Server: x", "default root test version server:"}
	for _, p := range ports {
		for _, b := range banners {
			first := Score(p, b)
			for i := 0; i < 3; i++ {
				if again := Score(p, b); again != first {
					t.Fatalf("Score(%d, %q) not deterministic: %d then %d", p, b, first, again)
				}
			}
			if first < 0 || first > 100 {
				t.Errorf("Score(%d, %q) = %d out of [0,100]", p, b, first)
			}
		}
	}
}

func TestServiceName(t *testing.T) {
	cases := []struct {
		port int
		want string
	}{
		{22, "SSH"},
		{443, "HTTPS"},
		{3306, "MySQL"},
		{27017, "MongoDB"},
		{54321, "Unknown"},
	}
	for _, tc := range cases {
		if got := ServiceName(tc.port); got != tc.want {
			t.Errorf("ServiceName(%d) = %q, want %q", tc.port, got, tc.want)
		}
	}
}
