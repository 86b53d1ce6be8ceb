package hydrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDecoderFromFixtures(t *testing.T) {
	fx := loadFixture(t, "hydrate_todos.json")

	for _, tc := range fx.Cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			options := buildOptions(tc)
			decoder := NewDecoder[todo](options...)

			ctx := Context{
				Model: tc.Model,
				Slice: tc.Slice,
			}

			result, err := decoder.Decode(ctx, tc.Input)

			if tc.ExpectErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tc.ExpectErr)
				}
				if !strings.Contains(err.Error(), tc.ExpectErr) {
					t.Fatalf("expected error containing %q, got %v", tc.ExpectErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}

			if !reflect.DeepEqual(tc.Expect, result) {
				t.Fatalf("decoded snapshot mismatch:\nwant: %#v\n got: %#v", tc.Expect, result)
			}
		})
	}
}

func TestDecodeNilPayload(t *testing.T) {
	_, err := NewDecoder[todo]().Decode(Context{Model: "todo"}, nil)
	if err == nil || !strings.Contains(err.Error(), `model "todo"`) {
		t.Fatalf("expected nil payload error naming the model, got %v", err)
	}
}

func TestDecodeDoesNotMutatePayload(t *testing.T) {
	payload := map[string]any{"title": "Standup", "due": "09:00 - 09:15"}
	decoder := NewDecoder[todo](WithPreHook[todo](dueSplitPreHook))

	if _, err := decoder.Decode(Context{Model: "todo"}, payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["due"] != "09:00 - 09:15" {
		t.Fatalf("expected caller payload untouched, got %v", payload["due"])
	}
}

func buildOptions(tc fixtureCase) []DecoderOption[todo] {
	options := []DecoderOption[todo]{}

	for _, optName := range tc.Options {
		switch optName {
		case "use_number":
			options = append(options, WithUseNumber[todo]())
		case "disallow_unknown":
			options = append(options, WithDisallowUnknownFields[todo]())
		}
	}

	for _, hookName := range tc.PreHooks {
		switch hookName {
		case "due_split":
			options = append(options, WithPreHook[todo](dueSplitPreHook))
		}
	}

	for _, hookName := range tc.PostHooks {
		switch hookName {
		case "ensure_tag":
			options = append(options, WithPostHook[todo](ensureTagPostHook))
		}
	}

	if tc.CustomDecoder != "" {
		switch tc.CustomDecoder {
		case "snapshot_string":
			options = append(options, WithCustomDecoder[todo](snapshotStringDecoder))
		}
	}

	return options
}

func dueSplitPreHook(_ Context, payload map[string]any) (map[string]any, error) {
	value, ok := payload["due"].(string)
	if !ok || value == "" {
		return payload, nil
	}

	parts := strings.Split(value, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid due window %q", value)
	}

	payload["due"] = map[string]any{
		"start": strings.TrimSpace(parts[0]),
		"end":   strings.TrimSpace(parts[1]),
	}
	return payload, nil
}

func ensureTagPostHook(ctx Context, snapshot *todo) error {
	if snapshot == nil {
		return errors.New("snapshot is nil")
	}
	if len(snapshot.Tags) > 0 {
		return nil
	}
	snapshot.Tags = []string{fmt.Sprintf("%s:%s", ctx.Model, sliceIdentifier(ctx.Slice))}
	return nil
}

func snapshotStringDecoder(ctx Context, payload map[string]any) (todo, error) {
	var zero todo
	raw, ok := payload["snapshot"].(string)
	if !ok || raw == "" {
		return zero, fmt.Errorf("missing snapshot string for slice %q", ctx.Slice)
	}
	var out todo
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return zero, err
	}
	return out, nil
}

func sliceIdentifier(slice string) string {
	if idx := strings.LastIndex(slice, "."); idx >= 0 {
		return slice[idx+1:]
	}
	return slice
}

type fixture struct {
	Description string        `json:"description"`
	Cases       []fixtureCase `json:"cases"`
}

type fixtureCase struct {
	Name          string         `json:"name"`
	Model         string         `json:"model"`
	Slice         string         `json:"slice"`
	Input         map[string]any `json:"input"`
	Expect        todo           `json:"expect"`
	ExpectErr     string         `json:"expectErr"`
	PreHooks      []string       `json:"preHooks"`
	PostHooks     []string       `json:"postHooks"`
	Options       []string       `json:"options"`
	CustomDecoder string         `json:"customDecoder"`
}

type todo struct {
	Title    string    `json:"title"`
	Done     bool      `json:"done"`
	Priority int       `json:"priority"`
	Due      dueWindow `json:"due"`
	Tags     []string  `json:"tags"`
}

type dueWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func loadFixture(t *testing.T, name string) fixture {
	t.Helper()
	path := filepath.Join("..", "..", "testdata", name)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read hydrate fixture %q: %v", name, err)
	}
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("failed to unmarshal hydrate fixture %q: %v", name, err)
	}
	return fx
}
