package script

import (
	"fmt"

	"github.com/swipelab/rune/pkg/script/evaluator"
)

// ToObject converts a host value, typically decoded from YAML or JSON,
// into a script value.
func ToObject(value any) (evaluator.Object, error) {
	switch v := value.(type) {
	case nil:
		return evaluator.NEVER, nil
	case bool:
		if v {
			return evaluator.TRUE, nil
		}
		return evaluator.FALSE, nil
	case int:
		return &evaluator.Integer{Value: int64(v)}, nil
	case int64:
		return &evaluator.Integer{Value: v}, nil
	case int32:
		return &evaluator.Integer{Value: int64(v)}, nil
	case uint64:
		if v > 1<<63-1 {
			return nil, fmt.Errorf("integer %d out of range", v)
		}
		return &evaluator.Integer{Value: int64(v)}, nil
	case float64:
		return &evaluator.Float{Value: v}, nil
	case float32:
		return &evaluator.Float{Value: float64(v)}, nil
	case string:
		return &evaluator.String{Value: v}, nil
	case map[string]any:
		pairs := make(map[string]evaluator.Object, len(v))
		for k, item := range v {
			obj, err := ToObject(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			pairs[k] = obj
		}
		return &evaluator.Dictionary{Pairs: pairs}, nil
	case evaluator.Object:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}
