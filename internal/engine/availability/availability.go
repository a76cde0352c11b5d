// Package availability считает свободные места парковки в заданный момент.
//
// Расчет точечный: занятость пересчитывается из актуального снимка записей
// на каждый вызов, а не ведется счетчиком. Слой хранения обязан передать
// корректный набор записей «этой парковки» на запрошенный момент; атомарное
// резервирование места — забота вызывающей стороны, не двигателя.
package availability

import (
	"time"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// FreeSpotsAt возвращает число свободных мест парковки вместимостью
// totalCapacity в момент at.
//
// Каждая коллекция фильтруется по собственному правилу активности записи:
// резервация — не терминальный статус и диапазон дат содержит момент;
// абонемент — активный статус и недельный слот покрывает момент;
// стоянка — открытый интервал [StartedAt, EndedAt-или-открыто) содержит
// момент. Результат не бывает отрицательным.
func FreeSpotsAt(totalCapacity int, at time.Time, loc *time.Location,
	reservations []models.Reservation,
	abonnements []models.Abonnement,
	stationnements []models.Stationnement) int {

	occupied := 0
	for _, r := range reservations {
		if r.IsActiveAt(at) {
			occupied++
		}
	}
	for _, a := range abonnements {
		if a.CoversAt(at, loc) {
			occupied++
		}
	}
	for _, s := range stationnements {
		if s.OccupiesAt(at) {
			occupied++
		}
	}
	free := totalCapacity - occupied
	if free < 0 {
		return 0
	}
	return free
}

// ComputeAvailability вариант для уже подсчитанных активных записей:
// та же арифметика «вычесть и не уйти ниже нуля».
func ComputeAvailability(totalCapacity, activeReservations, activeAbonnements, activeStationnements int) int {
	free := totalCapacity - activeReservations - activeAbonnements - activeStationnements
	if free < 0 {
		return 0
	}
	return free
}
