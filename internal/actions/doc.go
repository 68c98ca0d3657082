// Package actions содержит встроенные действия шагов.
//
// # Обзор
//
// Каждое действие — замыкание step.Action, настроенное при сборке:
//
//   - Delay       — пауза с кооперативной отменой
//   - HTTPRequest — запрос к внешнему API с шаблонами по параметрам
//   - Transform   — вычисление новых параметров через Go templates
//   - Check       — сравнение параметра с ожидаемым значением
//   - Generate    — заполнение параметров из генераторов
//
// # Декларативные определения
//
// Def описывает шаг декларативно (id, name, type, config); Build
// выбирает фабрику по типу, Register наполняет реестр сервиса,
// LoadDefs читает определения из JSON-файла:
//
//	[
//	    {"id": "pause", "name": "Пауза", "type": "delay",
//	     "config": {"duration_ms": 200}},
//	    {"id": "fetch", "name": "Запрос каталога", "type": "http",
//	     "config": {"url": "https://api.example.com/items",
//	                "expect_status": 200}}
//	]
//
// # Политика неудач
//
// Ошибки конфигурации обнаруживаются при сборке, до регистрации.
// Во время выполнения действия различают "мягкие" неудачи
// (несовпадение проверки — Outcome с Success=false) и ошибки
// (сбой сети, отмена контекста) — их перехватывает Executor.
package actions
