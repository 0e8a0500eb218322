package api

import (
	"errors"
	"testing"
)

func TestCheckTarget(t *testing.T) {
	testCases := []struct {
		address string
		allowed bool
	}{
		{"93.184.216.34:443", true},
		{"[2606:4700::6810:84e5]:443", true},
		{"127.0.0.1:80", false},
		{"[::1]:80", false},
		{"10.0.0.8:80", false},
		{"172.16.4.1:80", false},
		{"192.168.1.1:80", false},
		{"169.254.169.254:80", false},
		{"[fe80::1]:80", false},
		{"[fd00::1]:80", false},
		{"0.0.0.0:80", false},
		{"[::ffff:127.0.0.1]:80", false},
	}
	for _, tc := range testCases {
		t.Run(tc.address, func(t *testing.T) {
			err := checkTarget(tc.address)
			if tc.allowed && err != nil {
				t.Errorf("checkTarget(%q) = %v, want nil", tc.address, err)
			}
			if !tc.allowed && !errors.Is(err, errPrivateTarget) {
				t.Errorf("checkTarget(%q) = %v, want errPrivateTarget", tc.address, err)
			}
		})
	}
}
