// Package history содержит журнал истории выполнения шагов.
//
// Record — одна запись о вызове шага: ID шага, имя, снимок параметров,
// времена начала и конца, продолжительность, успешность, Outcome и
// захваченная ошибка действия. Запись финализируется один раз и после
// добавления в журнал не изменяется.
//
// Log — append-only журнал с мьютексом: один экземпляр может
// разделяться конкурентными прогонами, порядок записей отражает
// порядок завершения Append. Политики вытеснения нет — только явный
// Clear() между тестовыми прогонами.
package history
