// Package cli реализует инструмент командной строки Sequentia.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Sequentia API.
// Работает через HTTP, не импортирует внутренние пакеты движка.
// CLI используется для запуска последовательностей, просмотра
// истории и управления расписаниями.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Sequentia API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	steps, err := client.ListSteps()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: sequentia run list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - step:     list
//   - run:      list, start, show, cancel, records
//   - history:  list, clear
//   - schedule: list, create, show, update, delete, enable, disable
//
// Каждая группа создаётся через фабричную функцию (NewRunCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
