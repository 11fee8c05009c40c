package validator

import (
	"fmt"

	"github.com/dlclark/regexp2"

	"github.com/openbindings/draft4cover"
	"github.com/openbindings/draft4cover/pointer"
)

// compile returns the cached ECMAScript regular expression for pattern.
func (e *Engine) compile(pattern string, loc pointer.Context) (*regexp2.Regexp, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if re, ok := e.patterns[pattern]; ok {
		return re, nil
	}
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return nil, &draft4cover.SchemaError{Pointer: loc.String(), Message: fmt.Sprintf("invalid pattern %q: %v", pattern, err)}
	}
	e.patterns[pattern] = re
	return re, nil
}

// search reports whether re matches anywhere in s. Patterns are not anchored.
func search(re *regexp2.Regexp, s string, loc pointer.Context) (bool, error) {
	ok, err := re.MatchString(s)
	if err != nil {
		return false, &draft4cover.SchemaError{Pointer: loc.String(), Message: fmt.Sprintf("pattern %q: %v", re.String(), err)}
	}
	return ok, nil
}
