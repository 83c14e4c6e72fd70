package catalog

import "github.com/shopspring/decimal"

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

var defaultItems = []Item{
	{ID: "1", Name: "Açaí Trad. 300ml", UnitPrice: price("15.00"), Category: CategoryAcai},
	{ID: "2", Name: "Açaí Trad. 500ml", UnitPrice: price("20.00"), Category: CategoryAcai},
	{ID: "3", Name: "Açaí Trad. 700ml", UnitPrice: price("26.00"), Category: CategoryAcai},

	{ID: "4", Name: "Bombom Unitário", UnitPrice: price("2.50"), Category: CategorySweets},
	{ID: "5", Name: "Kit Kat / Snickers", UnitPrice: price("5.00"), Category: CategorySweets},
	{ID: "6", Name: "Barra Chocolate", UnitPrice: price("8.00"), Category: CategorySweets},
	{ID: "7", Name: "Paçoca Rolha", UnitPrice: price("1.50"), Category: CategorySweets},
	{ID: "8", Name: "Bala Fini Peq.", UnitPrice: price("2.50"), Category: CategorySweets},

	{ID: "9", Name: "Amendoim Jap. Peq.", UnitPrice: price("3.00"), Category: CategorySnacks},
	{ID: "10", Name: "Batata Chips Peq.", UnitPrice: price("5.00"), Category: CategorySnacks},
	{ID: "11", Name: "Elma Chips Grande", UnitPrice: price("12.00"), Category: CategorySnacks},
	{ID: "18", Name: "Trident Unidade", UnitPrice: price("3.50"), Category: CategorySnacks},
	{ID: "19", Name: "Halls Unidade", UnitPrice: price("2.50"), Category: CategorySnacks},
	{ID: "20", Name: "Mentos Tubo", UnitPrice: price("4.00"), Category: CategorySnacks},

	{ID: "12", Name: "Água Mineral 500ml", UnitPrice: price("3.00"), Category: CategoryBeverage},
	{ID: "13", Name: "Guaravita", UnitPrice: price("2.00"), Category: CategoryBeverage},
	{ID: "14", Name: "Suco de Caixinha", UnitPrice: price("4.00"), Category: CategoryBeverage},
	{ID: "15", Name: "Refri Lata 350ml", UnitPrice: price("6.00"), Category: CategoryBeverage},
	{ID: "16", Name: "Refri 600ml Garrafa", UnitPrice: price("8.00"), Category: CategoryBeverage},
	{ID: "17", Name: "Energético 269ml", UnitPrice: price("12.00"), Category: CategoryBeverage},
}
