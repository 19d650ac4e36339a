package wait

import "testing"

func TestMatchPatternLiteral(t *testing.T) {
	ok, matched := matchPattern("out:hello world", "out:hello")
	if !ok || matched != "out:hello" {
		t.Errorf("matchPattern literal = (%v,%q), want (true,%q)", ok, matched, "out:hello")
	}
	if ok, _ := matchPattern("nope", "out:hello"); ok {
		t.Errorf("matchPattern literal should not match absent substring")
	}
}

func TestMatchPatternRegex(t *testing.T) {
	ok, matched := matchPattern("status: 200 OK", "/[0-9]{3}/")
	if !ok || matched != "200" {
		t.Errorf("matchPattern regex = (%v,%q), want (true,%q)", ok, matched, "200")
	}
}

func TestMatchPatternGlob(t *testing.T) {
	ok, _ := matchPattern("build finished: success", "build*success")
	if !ok {
		t.Errorf("matchPattern glob should match build*success")
	}
	if ok, _ := matchPattern("build finished: failure", "build*success"); ok {
		t.Errorf("matchPattern glob should not match a differing tail")
	}
}
