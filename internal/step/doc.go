// Package step содержит определения шагов, их результаты и реестр.
//
// # Step
//
// Step — именованная единица тестовой логики: уникальный ID,
// отображаемое имя и Action. Action получает общий Bag прогона и
// возвращает Outcome; ошибка из Action означает неожиданный сбой
// и перехватывается Executor'ом.
//
// # Outcome
//
// Outcome — вердикт одного вызова шага: флаг успеха, сообщение,
// выходные данные (вливаются в Bag между шагами), артефакты и флаг
// AbortOnFailure. Конструкторы NewSuccess/NewFailure устанавливают
// AbortOnFailure=true; ContinueOnFailure() смягчает политику.
//
// # Registry
//
// Registry — явный потокобезопасный реестр шагов:
//
//	reg := step.NewRegistry()
//	reg.Register("login", "Вход в систему", loginAction)
//	s, err := reg.Get("login")
//	if errors.Is(err, step.ErrStepNotFound) {
//	    // шаг не зарегистрирован — восстановимое состояние
//	}
//
// Повторная регистрация с тем же ID молча заменяет шаг:
// последняя запись побеждает.
package step
