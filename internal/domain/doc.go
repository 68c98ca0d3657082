// Package domain содержит доменные сущности сервиса: прогоны
// последовательностей (SequenceRun), их статусы и расписания
// автоматического запуска (Schedule).
//
// Ядро выполнения (реестр, executor, runner, журнал истории) живёт
// в пакетах step, engine и history; domain описывает то, что
// окружающие слои (API, scheduler, хранилище) знают о прогонах.
package domain
