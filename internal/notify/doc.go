// Package notify содержит публикацию событий о прогонах в RabbitMQ.
//
// События (run.finished, step.completed) публикует вызывающая сторона
// после получения результата прогона — ядро выполнения событий не
// порождает. Потребители (дашборды, отчёты) подписываются на очереди
// обменника sequentia.events.
//
// Гарантия доставки — at-least-once: при разрыве соединения Publisher
// переподключается и вызывающий может повторить публикацию;
// exactly-once сознательно не гарантируется.
package notify
