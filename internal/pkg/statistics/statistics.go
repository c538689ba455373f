package statistics

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/primoteam/primotracker/app/models"
	"github.com/primoteam/primotracker/internal/pkg/cache"
	"github.com/primoteam/primotracker/internal/pkg/database"
	"github.com/primoteam/primotracker/internal/pkg/week"
)

const (
	CacheKeyWeekTotal  = "statistics:sales:week:%s" // Format with week start YYYY-MM-DD
	CacheKeyRepsTotal  = "statistics:reps:total"
	CacheKeyStoresOpen = "statistics:stores:active"
	CacheExpiration    = 30 * time.Minute
)

// StatisticsData holds the headline numbers for the dashboard
type StatisticsData struct {
	WeekTotal    int
	TotalReps    int
	ActiveStores int
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the cached numbers are older than the interval
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cache when the interval has passed
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		log.Println("Updating statistics cache...")
		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Error updating statistics cache: %v", err)
		} else {
			log.Println("Statistics cache updated")
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next UpdateCacheIfNeeded to refresh
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateStatisticsCache updates all statistics in the cache
func UpdateStatisticsCache() error {
	db := database.GetDB()

	weekStart := week.StartOf(time.Now())

	var weekTotal int64
	if err := db.Model(&models.SalesEntry{}).
		Where("week_start = ?", weekStart).
		Select("COALESCE(SUM(qty), 0)").
		Scan(&weekTotal).Error; err != nil {
		log.Printf("Error summing week total: %v", err)
		return err
	}

	var totalReps int64
	if err := db.Model(&models.Rep{}).Count(&totalReps).Error; err != nil {
		log.Printf("Error counting reps: %v", err)
		return err
	}

	var activeStores int64
	if err := db.Model(&models.Store{}).Where("active = ?", true).Count(&activeStores).Error; err != nil {
		log.Printf("Error counting active stores: %v", err)
		return err
	}

	weekKey := fmt.Sprintf(CacheKeyWeekTotal, week.Key(weekStart))
	if err := cache.Set(weekKey, strconv.FormatInt(weekTotal, 10), CacheExpiration); err != nil {
		log.Printf("Error caching week total: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyRepsTotal, strconv.FormatInt(totalReps, 10), CacheExpiration); err != nil {
		log.Printf("Error caching rep count: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyStoresOpen, strconv.FormatInt(activeStores, 10), CacheExpiration); err != nil {
		log.Printf("Error caching store count: %v", err)
		return err
	}

	log.Printf("Statistics updated in cache: Week Total: %d, Reps: %d, Active Stores: %d",
		weekTotal, totalReps, activeStores)

	return nil
}

// GetWeekTotal returns the jug total for the given week from cache or database
func GetWeekTotal(weekStart time.Time) int {
	weekKey := fmt.Sprintf(CacheKeyWeekTotal, week.Key(weekStart))

	if val, err := cache.GetInt(weekKey); err == nil {
		return val
	}

	var total int64
	db := database.GetDB()
	if err := db.Model(&models.SalesEntry{}).
		Where("week_start = ?", weekStart).
		Select("COALESCE(SUM(qty), 0)").
		Scan(&total).Error; err != nil {
		log.Printf("Error summing week total: %v", err)
		return 0
	}

	if err := cache.Set(weekKey, strconv.FormatInt(total, 10), CacheExpiration); err != nil {
		log.Printf("Error caching week total: %v", err)
	}

	return int(total)
}

// GetTotalReps returns the number of reps from cache or database
func GetTotalReps() int {
	if val, err := cache.GetInt(CacheKeyRepsTotal); err == nil {
		return val
	}

	var count int64
	db := database.GetDB()
	if err := db.Model(&models.Rep{}).Count(&count).Error; err != nil {
		log.Printf("Error counting reps: %v", err)
		return 0
	}

	if err := cache.Set(CacheKeyRepsTotal, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
		log.Printf("Error caching rep count: %v", err)
	}

	return int(count)
}

// GetActiveStores returns the number of active stores from cache or database
func GetActiveStores() int {
	if val, err := cache.GetInt(CacheKeyStoresOpen); err == nil {
		return val
	}

	var count int64
	db := database.GetDB()
	if err := db.Model(&models.Store{}).Where("active = ?", true).Count(&count).Error; err != nil {
		log.Printf("Error counting active stores: %v", err)
		return 0
	}

	if err := cache.Set(CacheKeyStoresOpen, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
		log.Printf("Error caching store count: %v", err)
	}

	return int(count)
}

// GetStatistics collects the dashboard headline numbers
func GetStatistics() StatisticsData {
	UpdateCacheIfNeeded()

	return StatisticsData{
		WeekTotal:    GetWeekTotal(week.StartOf(time.Now())),
		TotalReps:    GetTotalReps(),
		ActiveStores: GetActiveStores(),
	}
}
