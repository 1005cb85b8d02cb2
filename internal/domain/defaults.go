package domain

// DefaultTopics is the topic list offered on the home screen.
var DefaultTopics = []string{"Science", "GK", "Computer", "Sports", "Maths", "English"}

// DefaultQuestions returns the built-in question pool, two per topic.
func DefaultQuestions() []Question {
	return []Question{
		{Topic: "Science", Prompt: "What planet is known as the Red Planet?", Answer: "Mars",
			Options: [OptionCount]string{"Venus", "Mars", "Jupiter", "Saturn"}},
		{Topic: "Science", Prompt: "What is H2O commonly known as?", Answer: "Water",
			Options: [OptionCount]string{"Oxygen", "Hydrogen", "Water", "Carbon"}},
		{Topic: "GK", Prompt: "Who was the first president of the United States?", Answer: "George Washington",
			Options: [OptionCount]string{"Abraham Lincoln", "George Washington", "John Adams", "Thomas Jefferson"}},
		{Topic: "GK", Prompt: "In which year did World War II end?", Answer: "1945",
			Options: [OptionCount]string{"1939", "1941", "1945", "1950"}},
		{Topic: "Computer", Prompt: "What does CPU stand for?", Answer: "Central Processing Unit",
			Options: [OptionCount]string{"Central Processing Unit", "Central Programming Unit", "Computer Processing Unit", "Central Performance Unit"}},
		{Topic: "Computer", Prompt: "Which programming language is known as the mother of all languages?", Answer: "C",
			Options: [OptionCount]string{"Python", "C++", "Java", "C"}},
		{Topic: "Sports", Prompt: "How many players are there in a cricket team?", Answer: "11",
			Options: [OptionCount]string{"10", "11", "12", "9"}},
		{Topic: "Sports", Prompt: "Which country hosted the 2016 Summer Olympics?", Answer: "Brazil",
			Options: [OptionCount]string{"Japan", "China", "Brazil", "USA"}},
		{Topic: "Maths", Prompt: "What is 5 x 6?", Answer: "30",
			Options: [OptionCount]string{"30", "25", "35", "40"}},
		{Topic: "Maths", Prompt: "What is the square root of 49?", Answer: "7",
			Options: [OptionCount]string{"6", "8", "7", "9"}},
		{Topic: "English", Prompt: "What is the synonym of 'happy'?", Answer: "Joyful",
			Options: [OptionCount]string{"Sad", "Joyful", "Angry", "Excited"}},
		{Topic: "English", Prompt: "What is the antonym of 'big'?", Answer: "Small",
			Options: [OptionCount]string{"Huge", "Small", "Large", "Gigantic"}},
	}
}
