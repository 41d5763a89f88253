package detection

// Ingredients is the default prompt list. Order is significant: label
// normalization picks the first entry that matches, so earlier entries win.
var Ingredients = []string{
	"beef", "chicken", "pork", "fish", "tuna", "salmon",
	"egg", "boiled egg", "fried egg",
	"lentils", "chickpeas", "beans", "peas",
	"rice", "white rice", "brown rice",
	"pasta", "whole wheat pasta",
	"bread", "whole wheat bread", "tortilla", "wrap",
	"oats", "oatmeal", "flour", "breadcrumbs",
	"potato", "sweet potato", "pumpkin",
	"french fries", "mashed potatoes",
	"lettuce", "tomato", "cherry tomato",
	"onion", "red onion", "green onion",
	"carrot", "grated carrot",
	"bell pepper", "red pepper", "green pepper",
	"zucchini", "eggplant",
	"spinach", "arugula",
	"broccoli", "cauliflower",
	"avocado", "olives",
	"cheese", "mozzarella", "parmesan", "cream cheese",
	"butter", "peanut butter", "olive oil",
	"banana", "apple", "strawberry",
	"pizza", "hamburger", "sushi",
	"cookies", "biscuits", "cake", "chocolate cake",
	"croissant", "medialuna", "ice cream",
}

// Meal categories, in the order they are reported.
const (
	Breakfast = "breakfast"
	Lunch     = "lunch"
	Snack     = "snack"
	Dinner    = "dinner"
)

var categoryOrder = []string{Breakfast, Lunch, Snack, Dinner}

var mainCourse = []string{
	"rice", "white rice", "brown rice",
	"pasta", "whole wheat pasta",
	"lentils", "chickpeas", "beans", "peas",
	"beef", "chicken", "pork", "fish", "tuna", "salmon",
	"lettuce", "tomato", "cherry tomato",
	"onion", "red onion", "green onion",
	"carrot", "grated carrot",
	"bell pepper", "red pepper", "green pepper",
	"zucchini", "eggplant",
	"spinach", "arugula",
	"broccoli", "cauliflower",
	"potato", "sweet potato", "pumpkin",
	"french fries", "mashed potatoes",
	"avocado", "olives",
	"cheese", "mozzarella", "parmesan",
}

// MealCategories maps each category to the labels it admits.
var MealCategories = map[string][]string{
	Breakfast: {
		"egg", "boiled egg", "fried egg",
		"oats", "oatmeal", "bread", "whole wheat bread", "tortilla", "wrap",
		"croissant", "medialuna",
		"banana", "apple", "strawberry",
		"butter", "peanut butter", "cream cheese",
		"avocado",
	},
	Lunch: append(append([]string{}, mainCourse...), "olive oil"),
	Snack: {
		"bread", "whole wheat bread", "tortilla", "wrap",
		"cookies", "biscuits", "cake", "chocolate cake",
		"croissant", "medialuna", "ice cream",
		"banana", "apple", "strawberry",
		"peanut butter", "cream cheese",
		"avocado", "olives",
	},
	Dinner: append(append([]string{}, mainCourse...), "pizza", "hamburger", "sushi", "olive oil"),
}

// LabelsES translates detector labels for display.
var LabelsES = map[string]string{
	"rice": "arroz", "white rice": "arroz blanco", "brown rice": "arroz integral",
	"lentils": "lentejas", "chickpeas": "garbanzos", "beans": "porotos", "peas": "arvejas",
	"lettuce": "lechuga", "tomato": "tomate", "cherry tomato": "tomate cherry",
	"potato": "papa", "sweet potato": "batata", "pumpkin": "calabaza",
	"french fries": "papas fritas", "mashed potatoes": "puré de papa",
	"bread": "pan", "tortilla": "tortilla", "wrap": "wrap",
	"pasta": "pasta", "whole wheat pasta": "pasta integral",
	"egg": "huevo", "boiled egg": "huevo duro", "fried egg": "huevo frito",
	"beef": "carne de vaca", "chicken": "pollo", "pork": "cerdo",
	"fish": "pescado", "tuna": "atún", "salmon": "salmón",
	"cheese": "queso", "mozzarella": "mozzarella", "parmesan": "parmesano",
	"avocado": "palta", "olives": "aceitunas",
	"carrot": "zanahoria", "onion": "cebolla", "bell pepper": "morrón",
	"broccoli": "brócoli", "cauliflower": "coliflor", "spinach": "espinaca",
	"pizza": "pizza", "hamburger": "hamburguesa", "sushi": "sushi",
	"ice cream": "helado", "cake": "torta", "chocolate cake": "torta de chocolate",
	"croissant": "medialuna", "medialuna": "medialuna",
}

// Categories returns the meal category names in report order.
func Categories() []string {
	return categoryOrder
}

// ValidCategory reports whether c names a meal category.
func ValidCategory(c string) bool {
	_, ok := MealCategories[c]
	return ok
}
