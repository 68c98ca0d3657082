package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/shaiso/Sequentia/internal/params"
	"github.com/shaiso/Sequentia/internal/step"
)

const (
	// TypeDelay — тип шага задержки.
	TypeDelay = "delay"

	// Ключи конфигурации delay.
	configDurationSec = "duration_sec"
	configDurationMs  = "duration_ms"
)

// Delay возвращает действие, приостанавливающее прогон на duration.
//
// Поддерживает кооперативную отмену: отменённый контекст прерывает
// ожидание, действие возвращает ошибку и прогон останавливается.
func Delay(duration time.Duration) step.Action {
	return func(ctx context.Context, _ *params.Bag) (*step.Outcome, error) {
		timer := time.NewTimer(duration)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
		case <-timer.C:
			output := params.NewBag()
			output.SetInt("delayed_ms", duration.Milliseconds())
			return step.NewSuccess(fmt.Sprintf("delayed %s", duration)).WithOutput(output), nil
		}
	}
}

// buildDelay собирает действие delay из конфигурации.
func buildDelay(config map[string]any) (step.Action, error) {
	if sec := GetConfigInt(config, configDurationSec); sec > 0 {
		return Delay(time.Duration(sec) * time.Second), nil
	}
	if ms := GetConfigInt(config, configDurationMs); ms > 0 {
		return Delay(time.Duration(ms) * time.Millisecond), nil
	}
	return nil, fmt.Errorf("%w: %s: duration_sec or duration_ms required",
		ErrInvalidConfig, TypeDelay)
}
