package main

import "github.com/devanshgoyal/shopkart/internal/models"

// seedProducts is the built-in catalog shown before any seller lists
// anything. Ratings are intentionally absent; they are derived from the
// review ledger on read.
func seedProducts() []models.Product {
	return []models.Product{
		{
			ID:          "p1",
			Name:        "Wireless Headphones",
			Title:       "Wireless Headphones",
			Price:       129.99,
			Image:       "/images/products/headphones.jpg",
			Category:    "Electronics",
			InStock:     true,
			Description: "Premium over-ear wireless headphones with active noise cancellation and 30-hour battery life.",
		},
		{
			ID:          "p2",
			Name:        "Smartphone",
			Title:       "Smartphone",
			Price:       699.0,
			Image:       "/images/products/smartphone.jpg",
			Category:    "Electronics",
			InStock:     true,
			Description: "6.5-inch OLED display, triple camera system and all-day battery.",
		},
		{
			ID:            "3",
			Name:          "Leather Backpack",
			Title:         "Leather Backpack",
			Price:         89.99,
			OriginalPrice: 129.99,
			Discount:      31,
			Image:         "/images/products/backpack.jpg",
			Category:      "Fashion",
			InStock:       true,
			Description:   "Handcrafted full-grain leather backpack with padded laptop sleeve.",
		},
		{
			ID:          "4",
			Name:        "Running Shoes",
			Title:       "Running Shoes",
			Price:       119.99,
			Image:       "/images/products/shoes.jpg",
			Category:    "Sports",
			InStock:     true,
			Description: "Lightweight road running shoes with responsive foam cushioning.",
		},
		{
			ID:            "5",
			Name:          "Coffee Maker",
			Title:         "Coffee Maker",
			Price:         149.99,
			OriginalPrice: 199.99,
			Discount:      25,
			Image:         "/images/products/coffeemaker.jpg",
			Category:      "Home",
			InStock:       true,
			Description:   "Programmable drip coffee maker with thermal carafe and built-in grinder.",
		},
		{
			ID:          "6",
			Name:        "Desk Lamp",
			Title:       "Desk Lamp",
			Price:       49.99,
			Image:       "/images/products/lamp.jpg",
			Category:    "Home",
			InStock:     true,
			Description: "LED desk lamp with adjustable color temperature and USB charging port.",
		},
		{
			ID:          "7",
			Name:        "Yoga Mat",
			Title:       "Yoga Mat",
			Price:       34.99,
			Image:       "/images/products/yogamat.jpg",
			Category:    "Sports",
			InStock:     true,
			Description: "Non-slip 6mm yoga mat made from eco-friendly TPE.",
		},
		{
			ID:            "8",
			Name:          "Bluetooth Speaker",
			Title:         "Bluetooth Speaker",
			Price:         59.99,
			OriginalPrice: 79.99,
			Discount:      25,
			Image:         "/images/products/speaker.jpg",
			Category:      "Electronics",
			InStock:       true,
			Description:   "Portable waterproof speaker with 360-degree sound and 12-hour playtime.",
		},
	}
}
