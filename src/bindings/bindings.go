package bindings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/sag-enhanced/webshell/src/options"
	"github.com/sag-enhanced/webshell/src/ui"
)

type Bindings struct {
	options *options.Options
	ui      ui.UII
	logger  *slog.Logger
}

func NewBindings(options *options.Options, ui ui.UII, logger *slog.Logger) *Bindings {
	return &Bindings{options, ui, logger}
}

// our own RPC engine ontop of the one that webview already provides
// because the webview one is blocking and we want to be able to call
// functions that take a while to complete (eg show a dialog)

func (b *Bindings) BindHandler(method string, callId int, params string) error {
	b.logger.Debug("RPC call", "method", method, "id", callId, "params", params)
	prefix := fmt.Sprintf("if(shelld[%d]){", callId)
	suffix := fmt.Sprintf(";delete shelld[%d]}", callId)

	binding, err := lookupMethod(method)
	if err != nil {
		return err
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(params), &raw); err != nil {
		return err
	}
	if len(raw)+1 != binding.Type.NumIn() {
		return fmt.Errorf("wrong number of arguments (got %d, expected %d)", len(raw), binding.Type.NumIn()-1)
	}

	args := []reflect.Value{reflect.ValueOf(b)}
	for i := range raw {
		arg := reflect.New(binding.Type.In(1 + i))
		if err := json.Unmarshal(raw[i], arg.Interface()); err != nil {
			return err
		}
		args = append(args, arg.Elem())
	}

	go func() {
		result, err := parseResults(binding.Func.Call(args))

		if err != nil {
			b.ui.Eval(prefix + fmt.Sprintf("shelld[%d].b(new Error(%q))", callId, err.Error()) + suffix)
			return
		}
		encoded, err := json.Marshal(result)
		if err != nil {
			b.logger.Error("failed to marshal result of RPC function", "method", method, "error", err)
			b.ui.Eval(prefix + fmt.Sprintf("shelld[%d].b(new Error('result marshal failed'));", callId) + suffix)
			return
		}
		b.ui.Eval(prefix + fmt.Sprintf("shelld[%d].a(%s)", callId, string(encoded)) + suffix)
	}()
	return nil
}

// lookupMethod maps a page-side name like "screenshotQR" to the exported
// method ScreenshotQR.
func lookupMethod(method string) (reflect.Method, error) {
	if method == "" {
		return reflect.Method{}, errors.New("method not found: empty name")
	}
	methodName := strings.ToUpper(method[:1]) + method[1:]
	if methodName == "BindHandler" {
		return reflect.Method{}, fmt.Errorf("method not found: %s", method)
	}
	binding, ok := reflect.TypeOf(&Bindings{}).MethodByName(methodName)
	if !ok {
		return reflect.Method{}, fmt.Errorf("method not found: %s (%s)", method, methodName)
	}
	return binding, nil
}

func parseResults(results []reflect.Value) (interface{}, error) {
	if len(results) == 0 {
		return nil, nil
	}
	if len(results) == 1 {
		if err, ok := results[0].Interface().(error); ok {
			return nil, err
		}
		return results[0].Interface(), nil
	}
	if len(results) == 2 {
		if err, ok := results[1].Interface().(error); ok {
			return nil, err
		}
		return results[0].Interface(), nil
	}
	return nil, errors.New("too many return values")
}
