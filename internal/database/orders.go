package database

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Renal37/resto-dashboard/internal/models"
	"github.com/jackc/pgx/v5"
)

// Определение пользовательских ошибок
var (
	ErrNoOrder        = errors.New("заказ не найден")
	ErrStatusConflict = errors.New("статус заказа уже изменён")
)

// SQL-запросы для работы с заказами
const (
	InsertOrderQuery = `
		INSERT INTO
			orders (tenant, customer_name, items, total_amount, tip_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	SelectOrdersQuery = `
		SELECT
			id,
			customer_name,
			items,
			total_amount,
			tip_amount,
			status,
			created_at
		FROM
			orders
		WHERE
			tenant = $1
		ORDER BY
			created_at, id
	`
	SelectOrderStatusQuery = `
		SELECT
			status
		FROM
			orders
		WHERE
			id = $1
			AND tenant = $2
	`
	UpdateOrderStatusQuery = `
		UPDATE
			orders
		SET
			status = $3
		WHERE
			id = $1
			AND tenant = $2
			AND status = $4
	`
)

// Структура для хранения информации о заказе
type OrderDB struct {
	ID           int64
	Tenant       string
	CustomerName string
	Items        []models.OrderItem
	TotalAmount  float64
	TipAmount    float64
	Status       OrderStatusDB
	CreatedAt    time.Time
}

// Определение статуса заказа с возможностью преобразования в/из базы данных
type OrderStatusDB struct {
	models.OrderStatus
}

// Реализация интерфейса sql.Scanner для чтения статуса заказа из базы данных
func (s *OrderStatusDB) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		return fmt.Errorf("статус заказа должен быть строкой, а не %T", value)
	}

	*s = OrderStatusDB{models.OrderStatus(strVal)}
	return nil
}

// Реализация интерфейса driver.Valuer для преобразования статуса заказа в строку перед записью в базу данных
func (s OrderStatusDB) Value() (driver.Value, error) {
	return string(s.OrderStatus), nil
}

// CreateOrder создает новый заказ арендатора и заполняет ID и время создания
func (d *Database) CreateOrder(ctx context.Context, order *OrderDB) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("ошибка при сериализации позиций заказа: %w", err)
	}

	err = d.db.QueryRow(
		ctx,
		InsertOrderQuery,
		order.Tenant,
		order.CustomerName,
		items,
		order.TotalAmount,
		order.TipAmount,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при создании заказа: %w", err)
	}

	return nil
}

// FindOrders возвращает все заказы арендатора в порядке создания
func (d *Database) FindOrders(ctx context.Context, tenant string) ([]OrderDB, error) {
	rows, err := d.db.Query(ctx, SelectOrdersQuery, tenant)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении заказов: %w", err)
	}
	defer rows.Close()

	orders := []OrderDB{}

	for rows.Next() {
		order := OrderDB{Tenant: tenant}
		var items []byte

		if err := rows.Scan(
			&order.ID,
			&order.CustomerName,
			&items,
			&order.TotalAmount,
			&order.TipAmount,
			&order.Status,
			&order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка при чтении заказа: %w", err)
		}

		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("ошибка при разборе позиций заказа: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обходе заказов: %w", err)
	}

	return orders, nil
}

// FindOrderStatus возвращает текущий статус заказа арендатора
func (d *Database) FindOrderStatus(ctx context.Context, tenant string, orderID int64) (models.OrderStatus, error) {
	var status OrderStatusDB

	if err := d.db.QueryRow(ctx, SelectOrderStatusQuery, orderID, tenant).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNoOrder
		}
		return "", fmt.Errorf("ошибка при получении статуса заказа: %w", err)
	}

	return status.OrderStatus, nil
}

// UpdateOrderStatus выполняет условную смену статуса заказа: строка
// обновляется только если текущий статус совпадает с ожидаемым, иначе
// возвращается ErrStatusConflict (или ErrNoOrder, если заказа нет).
func (d *Database) UpdateOrderStatus(ctx context.Context, tenant string, orderID int64, from, to models.OrderStatus) error {
	tag, err := d.db.Exec(ctx, UpdateOrderStatusQuery, orderID, tenant, OrderStatusDB{to}, OrderStatusDB{from})
	if err != nil {
		return fmt.Errorf("ошибка при смене статуса заказа: %w", err)
	}

	if tag.RowsAffected() == 0 {
		if _, err := d.FindOrderStatus(ctx, tenant, orderID); errors.Is(err, ErrNoOrder) {
			return ErrNoOrder
		}
		return ErrStatusConflict
	}

	return nil
}
