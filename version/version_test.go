/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package version

import (
	"testing"
)

func TestString(t *testing.T) {
	tests := []struct {
		ver       Version
		hash      string
		str, full string
		banner    string
	}{
		{New(1, 2, 3), "", "1.2.3", "1.2.3", "1.2.3"},
		{Version{0, 1, 0, "rc1"}, "f9206956dd0ea388", "0.1.0", "0.1.0-rc1", "0.1.0-rc1 (f9206956)"},
		{New(0, 0, 1), "abc", "0.0.1", "0.0.1", "0.0.1 (abc)"},
	}

	for _, test := range tests {
		if s := test.ver.String(); s != test.str {
			t.Errorf("String() = %q, expected %q", s, test.str)
		}
		if s := test.ver.FullString(); s != test.full {
			t.Errorf("FullString() = %q, expected %q", s, test.full)
		}
		if s := test.ver.Banner(test.hash); s != test.banner {
			t.Errorf("Banner() = %q, expected %q", s, test.banner)
		}
	}
}

func TestCompatible(t *testing.T) {
	if !New(1, 2, 3).Compatible(New(1, 2, 9)) {
		t.Error("patch versions should be compatible")
	}
	if New(1, 2, 3).Compatible(New(1, 3, 3)) {
		t.Error("minor versions should not be compatible")
	}
}
