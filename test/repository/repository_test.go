package repository_test

import (
	"context"
	"testing"
	"time"

	"duzanda/internal/migrate"
	"duzanda/internal/models"
	"duzanda/internal/repository"
	"duzanda/pkg/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.MigrateStorefrontDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createMaster(t *testing.T, repos *repository.Repository, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Password: "hash", Role: models.RoleMaster}
	if err := repos.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create master: %v", err)
	}
	return u
}

func createBuyer(t *testing.T, repos *repository.Repository, username, phone string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Password: "hash", Role: models.RoleBuyer, Phone: &phone}
	if err := repos.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create buyer: %v", err)
	}
	return u
}

func createProduct(t *testing.T, repos *repository.Repository, masterID uuid.UUID, name string, stock uint32) *models.Product {
	t.Helper()
	price := decimal.RequireFromString("100.00")
	p := &models.Product{
		MasterID:     masterID,
		Name:         name,
		PricePerUnit: price, PricePerPackage: price.Mul(decimal.NewFromInt(10)), Price: price,
		Stock: stock,
	}
	if err := repos.Products.Create(context.Background(), p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func TestUserRepo_Lookup(t *testing.T) {
	db := setupDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	phone := "996700111222"
	buyer := createBuyer(t, repos, "user_abc", phone)

	got, err := repos.Users.GetByUsername(ctx, "USER_ABC")
	if err != nil || got == nil || got.ID != buyer.ID {
		t.Fatalf("GetByUsername (регистронезависимый): %v %v", got, err)
	}

	got, err = repos.Users.GetByPhone(ctx, phone)
	if err != nil || got == nil || got.ID != buyer.ID {
		t.Fatalf("GetByPhone: %v %v", got, err)
	}

	// при дубле номера выбирается самый старый аккаунт
	dup := createBuyer(t, repos, "user_dup", phone)
	got, err = repos.Users.GetByPhone(ctx, phone)
	if err != nil || got == nil {
		t.Fatalf("GetByPhone dup: %v %v", got, err)
	}
	if got.ID == dup.ID {
		t.Fatal("должен вернуться самый старый аккаунт")
	}

	exists, err := repos.Users.ExistsByUsername(ctx, "user_abc")
	if err != nil || !exists {
		t.Fatalf("ExistsByUsername: %v %v", exists, err)
	}
}

func TestProductRepo_ListAndDelete(t *testing.T) {
	db := setupDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	master := createMaster(t, repos, "master1")
	other := createMaster(t, repos, "master2")

	createProduct(t, repos, master.ID, "Чашка керамическая", 5)
	createProduct(t, repos, master.ID, "Ваза", 3)
	p3 := createProduct(t, repos, other.ID, "Чашка глиняная", 2)

	list, total, err := repos.Products.List(ctx, repository.ProductListFilter{Query: "Чашка"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("поиск по названию: total=%d len=%d", total, len(list))
	}

	list, total, err = repos.Products.List(ctx, repository.ProductListFilter{MasterID: &master.ID})
	if err != nil || total != 2 || len(list) != 2 {
		t.Fatalf("фильтр по мастеру: total=%d len=%d err=%v", total, len(list), err)
	}

	// чужой товар удалить нельзя
	ok, err := repos.Products.DeleteByMaster(ctx, p3.ID, master.ID)
	if err != nil || ok {
		t.Fatalf("удаление чужого товара: ok=%v err=%v", ok, err)
	}
	ok, err = repos.Products.DeleteByMaster(ctx, p3.ID, other.ID)
	if err != nil || !ok {
		t.Fatalf("удаление своего товара: ok=%v err=%v", ok, err)
	}
}

func TestSessionRepo_TouchAndCleanup(t *testing.T) {
	db := setupDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	now := time.Now().UTC()
	s := &models.CartSession{Token: "tok-1", CreatedAt: now, LastSeenAt: now}
	if err := repos.Sessions.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := repos.Sessions.Touch(ctx, "tok-1", now.Add(time.Hour))
	if err != nil || !ok {
		t.Fatalf("Touch: ok=%v err=%v", ok, err)
	}
	ok, err = repos.Sessions.Touch(ctx, "unknown", now)
	if err != nil || ok {
		t.Fatalf("Touch unknown: ok=%v err=%v", ok, err)
	}

	n, err := repos.Sessions.DeleteIdleSince(ctx, now.Add(2*time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("DeleteIdleSince: n=%d err=%v", n, err)
	}
}

func TestCartRepo_OwnerScopeAndAdjust(t *testing.T) {
	db := setupDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	master := createMaster(t, repos, "master1")
	buyer := createBuyer(t, repos, "buyer1", "996700000001")
	product := createProduct(t, repos, master.ID, "Чашка", 10)

	owner := models.UserOwner(buyer.ID)
	item := &models.CartItem{BuyerID: &buyer.ID, ProductID: product.ID, Quantity: 1, UnitType: models.UnitPerUnit, AddedAt: time.Now()}
	if err := repos.CartItems.Create(ctx, item); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// чужой владелец строку не видит
	got, err := repos.CartItems.GetByID(ctx, models.AnonymousOwner("someone-else"), item.ID)
	if err != nil || got != nil {
		t.Fatalf("чужая строка видна: %v %v", got, err)
	}

	// -1 при количестве 1 не проходит
	ok, err := repos.CartItems.AdjustQuantity(ctx, owner, item.ID, -1)
	if err != nil || ok {
		t.Fatalf("AdjustQuantity ниже 1: ok=%v err=%v", ok, err)
	}
	ok, err = repos.CartItems.AdjustQuantity(ctx, owner, item.ID, 1)
	if err != nil || !ok {
		t.Fatalf("AdjustQuantity +1: ok=%v err=%v", ok, err)
	}

	sum, err := repos.CartItems.SumQuantity(ctx, owner)
	if err != nil || sum != 2 {
		t.Fatalf("SumQuantity: %d %v", sum, err)
	}

	items, err := repos.CartItems.ListByOwner(ctx, owner)
	if err != nil || len(items) != 1 {
		t.Fatalf("ListByOwner: len=%d err=%v", len(items), err)
	}
	if items[0].Product.Name != "Чашка" {
		t.Fatalf("Product не предзагружен: %+v", items[0].Product)
	}
}

func TestCartRepo_MergeSessionIntoBuyer(t *testing.T) {
	db := setupDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	master := createMaster(t, repos, "master1")
	buyer := createBuyer(t, repos, "buyer1", "996700000001")
	shared := createProduct(t, repos, master.ID, "Общий товар", 100)
	onlySession := createProduct(t, repos, master.ID, "Только в сессии", 100)

	token := "sess-merge"
	now := time.Now()
	if err := repos.Sessions.Create(ctx, &models.CartSession{Token: token, CreatedAt: now, LastSeenAt: now}); err != nil {
		t.Fatalf("session: %v", err)
	}

	// у покупателя 2 шт, в сессии 3 шт того же товара + отдельная строка
	mustCreateItem(t, repos, &models.CartItem{BuyerID: &buyer.ID, ProductID: shared.ID, Quantity: 2, UnitType: models.UnitPerUnit, AddedAt: now})
	mustCreateItem(t, repos, &models.CartItem{SessionToken: &token, ProductID: shared.ID, Quantity: 3, UnitType: models.UnitPerUnit, AddedAt: now})
	mustCreateItem(t, repos, &models.CartItem{SessionToken: &token, ProductID: onlySession.ID, Quantity: 1, UnitType: models.UnitPerPackage, AddedAt: now})

	err := repos.WithTx(ctx, func(tx *repository.Repository) error {
		return tx.CartItems.MergeSessionIntoBuyer(ctx, token, buyer.ID)
	})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	owner := models.UserOwner(buyer.ID)
	items, err := repos.CartItems.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("после слияния ожидалось 2 строки, got %d", len(items))
	}
	byProduct := map[uuid.UUID]uint32{}
	for _, it := range items {
		byProduct[it.ProductID] = it.Quantity
		if it.SessionToken != nil {
			t.Fatalf("session_token должен обнулиться: %+v", it)
		}
	}
	if byProduct[shared.ID] != 5 {
		t.Fatalf("количество слитой строки = %d, ожидалось 5", byProduct[shared.ID])
	}
	if byProduct[onlySession.ID] != 1 {
		t.Fatalf("перенесённая строка = %d", byProduct[onlySession.ID])
	}

	sessionItems, err := repos.CartItems.ListByOwner(ctx, models.AnonymousOwner(token))
	if err != nil || len(sessionItems) != 0 {
		t.Fatalf("сессионная корзина должна опустеть: len=%d err=%v", len(sessionItems), err)
	}
}

func TestOrderRepo_CASTransition(t *testing.T) {
	db := setupDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	buyer := createBuyer(t, repos, "buyer1", "996700000001")
	ord := &models.Order{
		BuyerID:         buyer.ID,
		PhoneNumber:     "996700000001",
		DeliveryAddress: "адрес",
		Status:          models.OrderStatusNew,
		TotalAmount:     decimal.RequireFromString("500.00"),
	}
	if err := repos.Orders.Create(ctx, ord); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := repos.Orders.UpdateStatusFrom(ctx, ord.ID, models.OrderStatusNew, models.OrderStatusAccepted, nil)
	if err != nil || !ok {
		t.Fatalf("переход new->accepted: ok=%v err=%v", ok, err)
	}

	// повторный переход из new уже не проходит
	ok, err = repos.Orders.UpdateStatusFrom(ctx, ord.ID, models.OrderStatusNew, models.OrderStatusRejected, nil)
	if err != nil || ok {
		t.Fatalf("CAS из устаревшего статуса: ok=%v err=%v", ok, err)
	}

	tracking := "TRK-1"
	ok, err = repos.Orders.UpdateStatusFrom(ctx, ord.ID, models.OrderStatusAccepted, models.OrderStatusProcessing, &tracking)
	if err != nil || !ok {
		t.Fatalf("переход accepted->processing: ok=%v err=%v", ok, err)
	}
	got, _ := repos.Orders.GetByID(ctx, ord.ID)
	if got.Status != models.OrderStatusProcessing || got.TrackingNumber == nil || *got.TrackingNumber != tracking {
		t.Fatalf("после перехода: %+v", got)
	}
}

func TestOrderRepo_MasterScope(t *testing.T) {
	db := setupDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	masterA := createMaster(t, repos, "masterA")
	masterB := createMaster(t, repos, "masterB")
	buyer := createBuyer(t, repos, "buyer1", "996700000001")

	prodA := createProduct(t, repos, masterA.ID, "Товар А", 10)
	prodB := createProduct(t, repos, masterB.ID, "Товар Б", 10)

	ord := &models.Order{
		BuyerID: buyer.ID, PhoneNumber: "996700000001", DeliveryAddress: "адрес",
		Status: models.OrderStatusNew, TotalAmount: decimal.RequireFromString("300.00"),
	}
	if err := repos.Orders.Create(ctx, ord); err != nil {
		t.Fatalf("Create: %v", err)
	}
	items := []models.OrderItem{
		{OrderID: ord.ID, ProductID: &prodA.ID, Quantity: 1, Price: decimal.RequireFromString("100.00")},
		{OrderID: ord.ID, ProductID: &prodB.ID, Quantity: 2, Price: decimal.RequireFromString("100.00")},
	}
	if err := repos.OrderItems.BulkCreate(ctx, items); err != nil {
		t.Fatalf("BulkCreate: %v", err)
	}

	ok, err := repos.OrderItems.ExistsForMaster(ctx, ord.ID, masterA.ID)
	if err != nil || !ok {
		t.Fatalf("ExistsForMaster A: %v %v", ok, err)
	}
	ok, err = repos.OrderItems.ExistsForMaster(ctx, ord.ID, uuid.New())
	if err != nil || ok {
		t.Fatalf("ExistsForMaster unknown: %v %v", ok, err)
	}

	onlyA, err := repos.OrderItems.ListByOrderForMaster(ctx, ord.ID, masterA.ID)
	if err != nil || len(onlyA) != 1 {
		t.Fatalf("ListByOrderForMaster: len=%d err=%v", len(onlyA), err)
	}

	orders, err := repos.Orders.ListForMaster(ctx, masterB.ID)
	if err != nil || len(orders) != 1 {
		t.Fatalf("ListForMaster: len=%d err=%v", len(orders), err)
	}

	byPhone, err := repos.Orders.ListByPhone(ctx, "996700000001")
	if err != nil || len(byPhone) != 1 {
		t.Fatalf("ListByPhone: len=%d err=%v", len(byPhone), err)
	}

	// удаление товара обнуляет product_id в позициях, цена остаётся
	ok, err = repos.Products.DeleteByMaster(ctx, prodA.ID, masterA.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteByMaster: %v %v", ok, err)
	}
	after, err := repos.OrderItems.ListByOrder(ctx, ord.ID)
	if err != nil || len(after) != 2 {
		t.Fatalf("ListByOrder: len=%d err=%v", len(after), err)
	}
	var found bool
	for _, it := range after {
		if it.ProductID == nil {
			found = true
			if it.Price.StringFixed(2) != "100.00" {
				t.Fatalf("цена снимка потеряна: %s", it.Price.StringFixed(2))
			}
		}
	}
	if !found {
		t.Fatal("product_id должен обнулиться после удаления товара")
	}
}

func mustCreateItem(t *testing.T, repos *repository.Repository, item *models.CartItem) {
	t.Helper()
	if err := repos.CartItems.Create(context.Background(), item); err != nil {
		t.Fatalf("create cart item: %v", err)
	}
}
